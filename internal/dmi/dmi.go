// Package dmi はDMI情報によるハードウェア識別を行う
// スライドバーは特定のIdeaPadモデルにしか載っていないため、
// 一致しないマシンではアタッチしない
package dmi

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultRoot はDMI情報が公開されるsysfsディレクトリ
const DefaultRoot = "/sys/class/dmi/id"

// SystemID は対応機種1つ分のDMI照合条件を表す構造体
type SystemID struct {
	Ident   string // 機種名（ログ表示用）
	Vendor  string // sys_vendorに含まれるべき文字列
	Product string // product_nameに含まれるべき文字列
	Version string // product_versionに含まれるべき文字列
}

// スライドバー搭載が確認されている機種
var ideapadModels = []SystemID{
	{
		Ident:   "Lenovo IdeaPad Y550",
		Vendor:  "LENOVO",
		Product: "20017",
		Version: "Lenovo IdeaPad Y550",
	},
	{
		Ident:   "Lenovo IdeaPad Y550P",
		Vendor:  "LENOVO",
		Product: "20035",
		Version: "Lenovo IdeaPad Y550P",
	},
}

// Match はrootのDMI情報を対応機種リストと照合し、一致した機種を返す
// 一致しない場合はnilを返す。rootが読めない場合も不一致として扱う
func Match(root string) *SystemID {
	vendor := readField(root, "sys_vendor")
	product := readField(root, "product_name")
	version := readField(root, "product_version")

	for i := range ideapadModels {
		m := &ideapadModels[i]
		if strings.Contains(vendor, m.Vendor) &&
			strings.Contains(product, m.Product) &&
			strings.Contains(version, m.Version) {
			return m
		}
	}
	return nil
}

func readField(root, name string) string {
	b, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
