package features

import (
	"sync"

	"github.com/trotne/ideapad-slidebar/internal/consts"
)

// RegisterChannel はスライドバーのインデックス式レジスタ空間への
// 排他アクセスを提供する構造体
// 位置・モードの各レジスタはコマンド2バイトをポートに書いて選択し、
// 続くデータポート操作で読み書きする。ポート列が他の呼び出しと
// 混線しないよう、1トランザクション全体をロックで覆う
type RegisterChannel struct {
	mu   sync.Mutex
	port PortIO
}

// NewRegisterChannel はPortIOを包むレジスタチャネルを作成する
func NewRegisterChannel(port PortIO) *RegisterChannel {
	return &RegisterChannel{port: port}
}

// ReadPosition は現在の指の位置(0-255)を読み出す
// デバイス不在時は古い値やゴミが返るが、ハードウェアは有効性を
// 通知しないため正常値と区別しない
func (c *RegisterChannel) ReadPosition() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.port.Outb(consts.PortCommand1, consts.CmdPosition1)
	c.port.Outb(consts.PortCommand2, consts.CmdPosition2)
	return c.port.Inb(consts.PortData)
}

// ReadMode は現在のモードバイトを読み出す
func (c *RegisterChannel) ReadMode() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.port.Outb(consts.PortCommand1, consts.CmdMode1)
	c.port.Outb(consts.PortCommand2, consts.CmdMode2)
	return c.port.Inb(consts.PortData)
}

// WriteMode はモードバイトを書き込む
// ハードウェアは任意の値を受理するため検証は行わない
func (c *RegisterChannel) WriteMode(mode byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.port.Outb(consts.PortCommand1, consts.CmdMode1)
	c.port.Outb(consts.PortCommand2, consts.CmdMode2)
	c.port.Outb(consts.PortData, mode)
}

// Close は下層のポートアクセスを閉じる
func (c *RegisterChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port.Close()
}
