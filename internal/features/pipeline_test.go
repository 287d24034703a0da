package features

import (
	"testing"

	"github.com/trotne/ideapad-slidebar/internal/consts"
)

// combinedPortIO はスライドバーレジスタとi8042ポートの両方を
// エミュレートするフェイク（共有割り込み方式の結合テスト用）
type combinedPortIO struct {
	sim simPortIO
	kbd kbdPortIO
}

func (p *combinedPortIO) Outb(port uint16, value byte) {
	p.sim.Outb(port, value)
}

func (p *combinedPortIO) Inb(port uint16) byte {
	switch port {
	case consts.PortKbdStatus, consts.PortKbdData:
		return p.kbd.Inb(port)
	}
	return p.sim.Inb(port)
}

func (p *combinedPortIO) Close() error { return nil }

// 共有割り込み方式のソースからシンクまでの一連の流れを検証する
func TestSharedIRQPipeline(t *testing.T) {
	port := &combinedPortIO{}
	port.sim.position = 100
	// プレフィックスが落ちた素のbreakコードで終わるストリーム
	port.kbd.queue = []byte{0x1c, 0xe0, 0x3b, 0xe0, 0x3b, 0xbb, 0x9c}

	regs := NewRegisterChannel(port)
	sink := &recordSink{}
	decoder := NewDecoder(regs, sink)
	source := CreateSharedIRQSource(port)

	for {
		b, ok := source.Read()
		if !ok {
			break
		}
		decoder.Feed(b)
		// 最初のタッチの後に指の位置が変わる
		if len(sink.events) == 1 {
			port.sim.position = 120
		}
	}

	want := []string{"down:100", "move:120", "up"}
	if len(sink.events) != len(want) {
		t.Fatalf("events: got=%v, want=%v", sink.events, want)
	}
	for i := range want {
		if sink.events[i] != want[i] {
			t.Errorf("event[%d]: got=%q, want=%q", i, sink.events[i], want[i])
		}
	}
	if port.sim.torn != 0 {
		t.Errorf("torn sequences: got=%d, want=0", port.sim.torn)
	}
}
