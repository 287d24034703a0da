package features

import "github.com/trotne/ideapad-slidebar/internal/consts"

// PositionReader は位置レジスタの読み出しだけを切り出したインターフェース
type PositionReader interface {
	ReadPosition() byte
}

// Decoder はキーボードコントローラの生バイト列からスライドバーの
// タッチ・移動・リリースを復元する状態機械
//
// ベンダーはスライドバーのイベントを拡張スキャンコード空間に相乗り
// させており、e0 3b が移動、e0 bb がリリースを意味する。割り込み線を
// キーボードと共有する方式ではプレフィックスが落ちて bb 単体しか
// 観測できないことがあるため、接触中に限り bb 単体もリリースとして扱う
//
// Feedは単一のゴルーチンから呼ぶこと。通常のキーボードトラフィックは
// すべて素通しされ、イベントにはならない
type Decoder struct {
	regs PositionReader
	sink Slidebar

	extended bool // 直前のバイトが拡張プレフィックスだった
	touched  bool // タッチダウンからリリースまでの間true
}

// NewDecoder はデコーダを作成する
func NewDecoder(regs PositionReader, sink Slidebar) *Decoder {
	return &Decoder{regs: regs, sink: sink}
}

// Feed は生バイトを1つ処理し、そのバイトを消費したかどうかを返す
// パッシブフィルタとして動かす場合、trueのバイトだけを
// 通常のキーボードデコードから取り除く
func (d *Decoder) Feed(b byte) bool {
	switch {
	case b == consts.ScanExtended:
		d.extended = true

	case d.extended && b == consts.ScanMove:
		d.extended = false
		// 位置はここで1回だけ読む
		pos := d.regs.ReadPosition()
		if !d.touched {
			_ = d.sink.TouchDown(pos)
		} else {
			_ = d.sink.Move(pos)
		}
		d.touched = true

	case d.extended && b == consts.ScanRelease:
		d.extended = false
		d.touched = false
		_ = d.sink.TouchUp()

	case d.extended:
		// 拡張プレフィックスは次の1バイトで必ず解除する
		d.extended = false

	case b == consts.ScanRelease && d.touched:
		// プレフィックスなしのbreakコード。他のキーのリリースと
		// 衝突しうるが、接触中に限って消費する
		d.touched = false
		_ = d.sink.TouchUp()
		return true
	}
	return false
}

// Touched は現在タッチ中かどうかを返す（Feedと同じゴルーチンから呼ぶこと）
func (d *Decoder) Touched() bool {
	return d.touched
}
