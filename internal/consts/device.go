package consts

// UIInput デバイスの定数（uinput.hから）
const (
	MaxNameSize = 80         // デバイス名の最大サイズ
	DevCreate   = 0x5501     // デバイス作成用のIOCTL
	DevDestroy  = 0x5502     // デバイス破棄用のIOCTL
	SetEvBit    = 0x40045564 // イベントビット設定用のIOCTL
	SetKeyBit   = 0x40045565 // キービット設定用のIOCTL
	SetAbsBit   = 0x40045567 // 絶対座標ビット設定用のIOCTL
	BusHost     = 0x19       // ホストバスタイプ（オンボード接続デバイス）
)

// その他のデバイス制御用定数
const (
	AbsSize = 64 // 絶対座標の配列サイズ
)

// イベントタイプの定数（input-event-codes.hより）
const (
	Syn = 0x00 // 同期イベント
	Key = 0x01 // キーイベント
	Abs = 0x03 // 絶対座標イベント

	AbsX = 0x00 // X軸の絶対座標

	SynReport = 0     // イベント報告の同期
	BtnTouch  = 0x14a // タッチイベント
)
