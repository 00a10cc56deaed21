package spec

import (
	"encoding/json"
	"io/fs"
	"strings"

	"github.com/zintix-labs/reelcore/errs"
	"gopkg.in/yaml.v3"
)

// GetGameSettingByYAML
// 會讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳。
func GetGameSettingByYAML(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	if err := yaml.Unmarshal(data, gs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := gs.init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}

// GetGameSettingByJSON
// 會讀取 Json 設定、初始化各子設定並執行基本檢查後回傳
func GetGameSettingByJSON(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := gs.init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}

// GetGameSettingByFS 依副檔名（.yaml/.yml/.json）從檔案系統載入設定。
func GetGameSettingByFS(fsys fs.FS, path string) (*GameSetting, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "can not read setting file", path)
	}
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return GetGameSettingByYAML(data)
	case strings.HasSuffix(path, ".json"):
		return GetGameSettingByJSON(data)
	default:
		return nil, errs.WrapWithExtra(errs.ErrInvalidConfig, "unsupported setting file extension", path)
	}
}
