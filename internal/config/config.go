package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config はアプリケーション全体の設定を表す構造体
type Config struct {
	Attach AttachConfig `toml:"attach"`
	Device DeviceConfig `toml:"device"`
	Source SourceConfig `toml:"source"`
	Ports  PortsConfig  `toml:"ports"`
	Mode   ModeConfig   `toml:"mode"`
}

// AttachConfig はアタッチ判定の設定
type AttachConfig struct {
	// DMI照合を無視して強制的にアタッチする
	Force bool `toml:"force"`
	// DMI情報のディレクトリ（通常は変更不要）
	DMIRoot string `toml:"dmi_root"`
}

// DeviceConfig は仮想入力デバイスの設定
type DeviceConfig struct {
	UinputPath string `toml:"uinput_path"`
	Name       string `toml:"name"`
}

// SourceConfig はスキャンコードストリームの供給方式の設定
type SourceConfig struct {
	// "filter": serio_rawノードから全バイトを観測する
	// "shared-irq": i8042のデータポートを読み直す
	Variant   string `toml:"variant"`
	SerioPath string `toml:"serio_path"`
}

// PortsConfig はI/Oポートアクセスの設定
type PortsConfig struct {
	Path string `toml:"path"`
}

// ModeConfig はモードレジスタの設定
type ModeConfig struct {
	// アタッチ時に書き込む初期モード（16進文字列、空なら書き込まない）
	Initial string `toml:"initial"`
}

// ソース方式の取りうる値
const (
	SourceFilter    = "filter"
	SourceSharedIRQ = "shared-irq"
)

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	return &Config{
		Attach: AttachConfig{
			Force:   false,
			DMIRoot: "/sys/class/dmi/id",
		},
		Device: DeviceConfig{
			UinputPath: "/dev/uinput",
			Name:       "IdeaPad Slidebar",
		},
		Source: SourceConfig{
			Variant:   SourceFilter,
			SerioPath: "/dev/serio_raw0",
		},
		Ports: PortsConfig{
			Path: "/dev/port",
		},
		Mode: ModeConfig{
			Initial: "",
		},
	}
}

// GetDefaultConfigDir はデフォルトの設定ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "ideapad-slidebar"), nil
}

// LoadConfig は設定ファイルから設定を読み込む
func LoadConfig(configPath string) (*Config, error) {
	// デフォルト設定を用意
	config := DefaultConfig()

	// ファイルが存在しない場合はデフォルト設定を保存して返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// 設定ディレクトリの作成
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return config, err
		}

		// デフォルト設定の保存
		if err := SaveConfig(configPath, config); err != nil {
			return config, err
		}

		return config, nil
	}

	// 設定ファイルの読み込み
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig は設定をTOMLファイルに保存する
func SaveConfig(configPath string, config *Config) error {
	// 設定ディレクトリの作成
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// ファイルを開く（なければ作成）
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// TOML形式でエンコードして書き込み
	encoder := toml.NewEncoder(f)
	return encoder.Encode(config)
}
