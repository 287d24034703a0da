package consts

// スライドバーレジスタ空間のI/Oポート
// コマンド2バイトを0xff29と0xff2aに順に書き込み、0xff2bでデータを読み書きする
const (
	PortCommand1 = 0xff29 // コマンド1バイト目
	PortCommand2 = 0xff2a // コマンド2バイト目
	PortData     = 0xff2b // データポート
)

// レジスタ選択コマンド（SBarHook.dllからのリバースエンジニアリング値）
const (
	CmdPosition1 = 0xf4 // 位置レジスタ選択 1バイト目
	CmdPosition2 = 0xbf // 位置レジスタ選択 2バイト目
	CmdMode1     = 0xf7 // モードレジスタ選択 1バイト目
	CmdMode2     = 0x8b // モードレジスタ選択 2バイト目
)

// i8042キーボードコントローラのポート（共有割り込み方式で使用）
const (
	PortKbdData   = 0x60 // キーボードデータポート
	PortKbdStatus = 0x64 // キーボードステータスポート
	KbdStatusOBF  = 0x01 // 出力バッファフルビット
)

// スライドバーが流用する拡張スキャンコード
// 移動時に e0 3b、指を離した時に e0 bb が届く
const (
	ScanExtended = 0xe0 // 拡張プレフィックス
	ScanMove     = 0x3b // タッチ・移動（makeコード）
	ScanRelease  = 0xbb // リリース（breakコード）
)

// モードバイトのコマンド値
//
// 判明しているのは 0b10011001 のビットのみ。書き込み値と状態:
//
//	全状態から          0b01001 -> STD_INT
//	                    0b10001 -> ONMOV_INT
//	                    0b01000 -> OFF_INT
//	STD_INT/ONMOV_INT   0b0 -> LAST_POLL    0b1 -> STD_INT
//	OFF_INT/OFF_POLL    0b0 -> OFF_POLL    0b1 -> OFF_INT
//	任意の状態          0b10000000 -> 最終位置を1イベント送出してPOLLへ
const (
	ModeStdInt   = 0x09 // ハートビート点灯・全イベント生成
	ModeOnmovInt = 0x11 // 接触中のみ点灯・全イベント生成
	ModeOffInt   = 0x08 // 消灯・全イベント生成
	ModeFlush    = 0x80 // 最終位置を1回だけ送出しPOLLモードへ
)

// 読み出し値を0x11でマスクした時の状態
const (
	ModeStateMask  = 0x11
	ModeStateLast  = 0x00
	ModeStateStd   = 0x01
	ModeStateOff   = 0x10
	ModeStateOnmov = 0x11
)
