package features

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// PortIO はI/Oポート空間へのバイト単位アクセスを抽象化するインターフェース
// ポートプロトコルは応答確認のないfire-and-forgetであり、読み出しは常に
// 1バイト返る（デバイス不在時はバスの浮き値0xff）ためエラーを返さない
type PortIO interface {
	Outb(port uint16, value byte)
	Inb(port uint16) byte
	Close() error
}

type devPort struct {
	file *os.File
}

// OpenPortIO は/dev/port経由のI/Oポートアクセスを開く
// 通常はroot権限が必要
func OpenPortIO(path string) (PortIO, error) {
	f, err := os.OpenFile(path, syscall.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w: ポートデバイスを開くのに失敗しました[path=%s]: %v", ErrResourceExhausted, path, err)
	}
	return &devPort{file: f}, nil
}

func (p *devPort) Outb(port uint16, value byte) {
	buf := [1]byte{value}
	_, _ = unix.Pwrite(int(p.file.Fd()), buf[:], int64(port))
}

func (p *devPort) Inb(port uint16) byte {
	buf := [1]byte{0xff}
	if n, err := unix.Pread(int(p.file.Fd()), buf[:], int64(port)); err != nil || n != 1 {
		return 0xff
	}
	return buf[0]
}

func (p *devPort) Close() error {
	return p.file.Close()
}
