package features

import (
	"fmt"
	"testing"
)

// scriptedPositions は位置レジスタの読み出しを順番に返すフェイク
type scriptedPositions struct {
	values []byte
	reads  int
}

func (p *scriptedPositions) ReadPosition() byte {
	v := byte(0)
	if p.reads < len(p.values) {
		v = p.values[p.reads]
	}
	p.reads++
	return v
}

// recordSink は配送されたイベントを記録するフェイク
type recordSink struct {
	events []string
}

func (s *recordSink) TouchDown(pos byte) error {
	s.events = append(s.events, fmt.Sprintf("down:%d", pos))
	return nil
}

func (s *recordSink) Move(pos byte) error {
	s.events = append(s.events, fmt.Sprintf("move:%d", pos))
	return nil
}

func (s *recordSink) TouchUp() error {
	s.events = append(s.events, "up")
	return nil
}

func (s *recordSink) Close() error { return nil }

func TestDecoder(t *testing.T) {
	for _, c := range []struct {
		name         string
		positions    []byte
		input        []byte
		wantEvents   []string
		wantTouched  bool
		wantConsumed []int // 消費を返すべきバイトのインデックス
	}{
		{
			name:       "ordinary keyboard traffic",
			input:      []byte{0x1c, 0x9c, 0x2a, 0x3b, 0xaa, 0x45},
			wantEvents: nil,
		},
		{
			name:       "extended prefix with unknown code",
			input:      []byte{0xe0, 0x1c},
			wantEvents: nil,
		},
		{
			name:       "prefix cleared by unknown code before move code",
			input:      []byte{0xe0, 0x1c, 0x3b},
			wantEvents: nil,
		},
		{
			name:        "single touch",
			positions:   []byte{42},
			input:       []byte{0xe0, 0x3b},
			wantEvents:  []string{"down:42"},
			wantTouched: true,
		},
		{
			name:        "idempotent touch",
			positions:   []byte{10, 20, 30},
			input:       []byte{0xe0, 0x3b, 0xe0, 0x3b, 0xe0, 0x3b},
			wantEvents:  []string{"down:10", "move:20", "move:30"},
			wantTouched: true,
		},
		{
			name:        "release resets touch state",
			positions:   []byte{1, 2},
			input:       []byte{0xe0, 0x3b, 0xe0, 0xbb, 0xe0, 0x3b},
			wantEvents:  []string{"down:1", "up", "down:2"},
			wantTouched: true,
		},
		{
			name:       "bare release while untouched is ignored",
			input:      []byte{0xbb},
			wantEvents: nil,
		},
		{
			name:         "bare release while touched",
			positions:    []byte{99},
			input:        []byte{0xe0, 0x3b, 0xbb},
			wantEvents:   []string{"down:99", "up"},
			wantConsumed: []int{2},
		},
		{
			name:        "repeated prefix keeps waiting",
			positions:   []byte{7},
			input:       []byte{0xe0, 0xe0, 0x3b},
			wantEvents:  []string{"down:7"},
			wantTouched: true,
		},
		{
			name:       "extended release without touch",
			input:      []byte{0xe0, 0xbb},
			wantEvents: []string{"up"},
		},
	} {
		t.Run(c.name, func(t *testing.T) {
			regs := &scriptedPositions{values: c.positions}
			sink := &recordSink{}
			d := NewDecoder(regs, sink)

			consumed := map[int]bool{}
			for i, b := range c.input {
				if d.Feed(b) {
					consumed[i] = true
				}
			}

			if got, want := len(sink.events), len(c.wantEvents); got != want {
				t.Fatalf("events: got=%v, want=%v", sink.events, c.wantEvents)
			}
			for i, want := range c.wantEvents {
				if sink.events[i] != want {
					t.Errorf("event[%d]: got=%q, want=%q", i, sink.events[i], want)
				}
			}

			if d.Touched() != c.wantTouched {
				t.Errorf("touched: got=%v, want=%v", d.Touched(), c.wantTouched)
			}

			wantConsumed := map[int]bool{}
			for _, i := range c.wantConsumed {
				wantConsumed[i] = true
			}
			for i := range c.input {
				if consumed[i] != wantConsumed[i] {
					t.Errorf("consumed[%d]: got=%v, want=%v", i, consumed[i], wantConsumed[i])
				}
			}

			// 位置はタッチ・移動イベント1つにつき1回だけ読む
			motions := 0
			for _, ev := range sink.events {
				if ev != "up" {
					motions++
				}
			}
			if regs.reads != motions {
				t.Errorf("position reads: got=%d, want=%d", regs.reads, motions)
			}
		})
	}
}
