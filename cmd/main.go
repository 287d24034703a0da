package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/browser"

	"github.com/trotne/ideapad-slidebar/internal/api"
	"github.com/trotne/ideapad-slidebar/internal/config"
)

func main() {
	// コマンドライン引数の解析
	useApi := flag.Bool("api", false, "APIサーバーモードで起動します")
	configPath := flag.String("config", "", "設定ファイルのパス (指定しない場合はデフォルトパスを使用)")
	port := flag.Int("port", 8080, "APIサーバーのポート番号")
	force := flag.Bool("force", false, "DMI照合を無視して強制的にアタッチします")
	open := flag.Bool("open", false, "APIモードでブラウザを開きます")
	flag.Parse()

	// デフォルト設定ファイルパスの設定
	defaultConfigPath := ""
	configDir, err := config.GetDefaultConfigDir()
	if err == nil {
		defaultConfigPath = filepath.Join(configDir, "config.toml")
	}

	// 設定ファイルパスの決定
	cfgPath := defaultConfigPath
	if *configPath != "" {
		cfgPath = *configPath
	}

	// 設定ファイルの読み込み
	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			fmt.Printf("設定ファイルの読み込みに失敗しました: %v\nデフォルト設定を使用します\n", err)
			cfg = config.DefaultConfig()
		} else {
			fmt.Printf("設定ファイルを読み込みました: %s\n", cfgPath)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if *force {
		cfg.Attach.Force = true
	}

	service := api.NewSlidebarService(cfg)

	// シグナルハンドラの設定
	handleSignals(service)

	// APIモードかCLIモードかを判断
	if *useApi {
		// APIモードで実行（サービスの開始はAPI経由で行う）
		fmt.Printf("APIサーバーモードで起動します (ポート: %d)...\n", *port)
		if *open {
			if err := browser.OpenURL(fmt.Sprintf("http://localhost:%d/api/service/status", *port)); err != nil {
				log.Printf("ブラウザを開けませんでした: %v", err)
			}
		}
		runApiServer(cfg, service, *port)
	} else {
		// CLIモードで実行
		fmt.Println("CLIモードで起動します...")
		runCLI(service)
	}
}

// APIサーバーモードでの実行
func runApiServer(cfg *config.Config, service *api.SlidebarService, port int) {
	// APIサーバーを作成
	server := api.NewServer(cfg, service, port)

	// サーバー起動
	if err := server.Start(); err != nil {
		log.Fatalf("APIサーバーの起動に失敗しました: %v", err)
	}
}

// CLIモードでの実行
func runCLI(service *api.SlidebarService) {
	// 即座にアタッチする
	if err := service.Start(); err != nil {
		fmt.Printf("スライドバーサービスの起動に失敗しました: %v\n", err)
		os.Exit(1)
	}

	// シグナルが来るまで待機（終了処理はhandleSignals内で行われる）
	select {}
}

func handleSignals(service *api.SlidebarService) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("シャットダウンします...")
		if service.IsRunning() {
			_ = service.Stop()
		}
		os.Exit(0)
	}()
}
