package features

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DeviceMonitor は購読中のデバイスノードの消失を監視する構造体
// ノードが消えた場合（ドライバのアンバインドや再接続）はコールバックで
// 通知し、サービス側で購読の解除を行わせる
type DeviceMonitor struct {
	watcher       *fsnotify.Watcher
	path          string
	onRemove      func()
	stopChan      chan struct{}
	pollingTicker *time.Ticker
	isRunning     bool
}

// NewDeviceMonitor は指定されたデバイスノードを監視するモニターを作成する
func NewDeviceMonitor(path string, onRemove func()) (*DeviceMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &DeviceMonitor{
		watcher:  watcher,
		path:     path,
		onRemove: onRemove,
		stopChan: make(chan struct{}),
	}, nil
}

// Start はデバイスノードの監視を開始する
func (dm *DeviceMonitor) Start() error {
	if dm.isRunning {
		return nil // すでに実行中
	}

	// ノード自体ではなく親ディレクトリを監視する
	// （削除イベントはディレクトリ側に届く）
	dir := filepath.Dir(dm.path)
	if err := dm.watcher.Add(dir); err != nil {
		return err
	}

	log.Printf("デバイスノードの監視を開始: %s", dm.path)
	dm.isRunning = true

	// fsnotifyを取りこぼした場合に備えて存在確認も併用する（2秒ごと）
	dm.pollingTicker = time.NewTicker(2 * time.Second)

	go dm.watchEvents()

	return nil
}

// Stop はデバイスノードの監視を停止する
func (dm *DeviceMonitor) Stop() {
	if !dm.isRunning {
		return
	}

	close(dm.stopChan)
	dm.pollingTicker.Stop()
	dm.watcher.Close()
	dm.isRunning = false
}

// watchEvents はfsnotifyのイベントとポーリングを監視する
func (dm *DeviceMonitor) watchEvents() {
	for {
		select {
		case <-dm.stopChan:
			return

		case event, ok := <-dm.watcher.Events:
			if !ok {
				return
			}
			if event.Name != dm.path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Printf("デバイスノードが削除されました: %s", dm.path)
				dm.onRemove()
				return
			}

		case <-dm.pollingTicker.C:
			if _, err := os.Stat(dm.path); os.IsNotExist(err) {
				log.Printf("デバイスノードが見つかりません: %s", dm.path)
				dm.onRemove()
				return
			}

		case err, ok := <-dm.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("ファイルシステム監視エラー: %v", err)
		}
	}
}
