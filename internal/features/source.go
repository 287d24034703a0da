package features

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/trotne/ideapad-slidebar/internal/consts"
)

// ScanSource はキーボードコントローラの生バイト列の供給元を抽象化する
// インターフェース。Readはノンブロッキングで、バイトが無いときは
// ok=falseを返す
//
// 供給方式は2系統ある:
//   - パッシブフィルタ方式: serio_rawノードから全バイトを観測する
//     （拡張プレフィックスも届く）
//   - 共有割り込み方式: キーボードと同じポートを読み直す
//     （プレフィックスの取りこぼしがありうる）
type ScanSource interface {
	Read() (b byte, ok bool)
	io.Closer
}

type serioSource struct {
	file *os.File
}

// CreateSerioSource はserio_rawデバイスノードを購読するソースを作成する
func CreateSerioSource(path string) (ScanSource, error) {
	f, err := os.OpenFile(path, syscall.O_RDONLY|syscall.O_NONBLOCK, 0660)
	if err != nil {
		return nil, fmt.Errorf("%w: serioデバイスを開くのに失敗しました[path=%s]: %v", ErrUnavailable, path, err)
	}
	return &serioSource{file: f}, nil
}

func (s *serioSource) Read() (byte, bool) {
	var buf [1]byte
	n, err := s.file.Read(buf[:])
	if err != nil || n != 1 {
		return 0, false
	}
	return buf[0], true
}

func (s *serioSource) Close() error {
	return s.file.Close()
}

type sharedIRQSource struct {
	port PortIO
}

// CreateSharedIRQSource はi8042のデータポートを読み直すソースを作成する
// キーボード側のバイトを奪わない前提なので、ステータスポートの
// 出力バッファフルを確認した時だけ読む
func CreateSharedIRQSource(port PortIO) ScanSource {
	return &sharedIRQSource{port: port}
}

func (s *sharedIRQSource) Read() (byte, bool) {
	if s.port.Inb(consts.PortKbdStatus)&consts.KbdStatusOBF == 0 {
		return 0, false
	}
	return s.port.Inb(consts.PortKbdData), true
}

func (s *sharedIRQSource) Close() error {
	// ポートアクセス自体はレジスタチャネルと共有しており、所有しない
	return nil
}
