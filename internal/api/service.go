package api

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/trotne/ideapad-slidebar/internal/config"
	"github.com/trotne/ideapad-slidebar/internal/dmi"
	"github.com/trotne/ideapad-slidebar/internal/features"
)

// SlidebarService はスライドバーのアタッチからデコードループまでの
// ライフサイクルを管理する構造体
type SlidebarService struct {
	cfg         *config.Config
	stopChan    chan struct{}
	doneChan    chan struct{}
	running     bool
	statusMutex sync.RWMutex

	regs     *features.RegisterChannel
	slidebar features.Slidebar
	source   features.ScanSource
	monitor  *features.DeviceMonitor
	mode     *features.ModeEndpoint
	model    string
}

// NewSlidebarService は新しいスライドバーサービスを作成する
func NewSlidebarService(cfg *config.Config) *SlidebarService {
	return &SlidebarService{
		cfg:     cfg,
		running: false,
	}
}

// Start はハードウェアにアタッチし、デコードループを開始する
// 途中で失敗した場合は獲得と逆順で巻き戻し、登録を残さない
func (s *SlidebarService) Start() error {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	if s.running {
		return fmt.Errorf("サービスは既に実行中です")
	}

	// DMI照合（forceで省略可能）
	if !s.cfg.Attach.Force {
		model := dmi.Match(s.cfg.Attach.DMIRoot)
		if model == nil {
			return fmt.Errorf("スライドバー搭載機種ではありません（attach.force=trueで強制できます）")
		}
		s.model = model.Ident
		log.Printf("機種を確認しました: %s", model.Ident)
	} else {
		s.model = "(forced)"
		log.Println("DMI照合を省略して強制アタッチします")
	}

	// レジスタチャネルの確保
	port, err := features.OpenPortIO(s.cfg.Ports.Path)
	if err != nil {
		return fmt.Errorf("レジスタチャネルの確保に失敗しました: %w", err)
	}
	s.regs = features.NewRegisterChannel(port)
	s.mode = features.NewModeEndpoint(s.regs)

	// 設定に初期モードがあれば書き込む
	if s.cfg.Mode.Initial != "" {
		if _, err := s.mode.Store([]byte(s.cfg.Mode.Initial)); err != nil {
			s.unwind(nil, nil)
			return fmt.Errorf("初期モードの書き込みに失敗しました: %w", err)
		}
		log.Printf("初期モードを書き込みました: %s", s.cfg.Mode.Initial)
	}

	// 仮想入力デバイスの作成
	slidebar, err := features.CreateSlidebar(s.cfg.Device.UinputPath, []byte(s.cfg.Device.Name))
	if err != nil {
		s.unwind(nil, nil)
		return fmt.Errorf("仮想入力デバイスの作成に失敗しました: %w", err)
	}
	s.slidebar = slidebar

	// スキャンコードストリームの購読
	var source features.ScanSource
	switch s.cfg.Source.Variant {
	case config.SourceSharedIRQ:
		source = features.CreateSharedIRQSource(port)
	case config.SourceFilter, "":
		source, err = features.CreateSerioSource(s.cfg.Source.SerioPath)
		if err != nil {
			s.unwind(slidebar, nil)
			return fmt.Errorf("スキャンコードストリームの購読に失敗しました: %w", err)
		}
	default:
		s.unwind(slidebar, nil)
		return fmt.Errorf("%w: 不明なソース方式です: %q", features.ErrInvalidArgument, s.cfg.Source.Variant)
	}
	s.source = source

	// serioノードの消失監視（失敗してもアタッチ自体は継続する）
	if s.cfg.Source.Variant != config.SourceSharedIRQ {
		monitor, err := features.NewDeviceMonitor(s.cfg.Source.SerioPath, func() {
			_ = s.Stop()
		})
		if err != nil {
			log.Printf("デバイスモニターの作成に失敗しました: %v", err)
		} else if err := monitor.Start(); err != nil {
			log.Printf("デバイスモニターの開始に失敗しました: %v", err)
		} else {
			s.monitor = monitor
		}
	}

	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.running = true

	decoder := features.NewDecoder(s.regs, s.slidebar)
	go s.runDecodeLoop(decoder)

	log.Println("スライドバーサービスを開始しました")
	return nil
}

// unwind はアタッチ途中の失敗時に獲得済みリソースを逆順で解放する
func (s *SlidebarService) unwind(slidebar features.Slidebar, source features.ScanSource) {
	if source != nil {
		_ = source.Close()
	}
	if slidebar != nil {
		_ = slidebar.Close()
	}
	if s.regs != nil {
		_ = s.regs.Close()
		s.regs = nil
	}
	s.mode = nil
	s.slidebar = nil
	s.source = nil
}

// Stop はデコードループを止め、リソースを獲得と逆順で解放する
// ストリーム購読の解除はシンクとレジスタチャネルの解放より先に完了する
func (s *SlidebarService) Stop() error {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	if !s.running {
		return fmt.Errorf("サービスは実行されていません")
	}

	if s.monitor != nil {
		s.monitor.Stop()
		s.monitor = nil
	}

	// ループの終了を待ってからシンクを壊す
	close(s.stopChan)
	<-s.doneChan

	_ = s.source.Close()
	_ = s.slidebar.Close()
	_ = s.regs.Close()

	s.source = nil
	s.slidebar = nil
	s.regs = nil
	s.mode = nil
	s.running = false

	log.Println("スライドバーサービスを停止しました")
	return nil
}

// IsRunning はサービスが実行中かどうかを返す
func (s *SlidebarService) IsRunning() bool {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.running
}

// Mode はモード制御エンドポイントを返す（停止中はnil）
func (s *SlidebarService) Mode() *features.ModeEndpoint {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.mode
}

// Position は現在の指の位置を読み出す
func (s *SlidebarService) Position() (byte, bool) {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	if !s.running {
		return 0, false
	}
	return s.regs.ReadPosition(), true
}

// ModeByte は現在のモードバイトを読み出す
func (s *SlidebarService) ModeByte() (byte, bool) {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	if !s.running {
		return 0, false
	}
	return s.regs.ReadMode(), true
}

// Model はアタッチ時に確認した機種名を返す
func (s *SlidebarService) Model() string {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.model
}

// runDecodeLoop はスキャンコードのデコードメインループ
func (s *SlidebarService) runDecodeLoop(decoder *features.Decoder) {
	defer close(s.doneChan)

	source := s.source
	for {
		select {
		case <-s.stopChan:
			return
		default:
			b, ok := source.Read()
			if !ok {
				time.Sleep(100 * time.Microsecond)
				continue
			}
			decoder.Feed(b)
		}
	}
}
