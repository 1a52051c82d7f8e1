package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
// 运行期会被并发访问：导入 goroutine 读提取参数，PATCH /api/config 改它，
// 跨 goroutine 的读写都必须走 ExtractSnapshot/DataSnapshot/Mutate
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Extract ExtractConfig `toml:"extract"`

	mu sync.RWMutex
}

// ExtractSnapshot 取提取参数的一致快照
func (c *AppConfig) ExtractSnapshot() ExtractConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Extract
}

// DataSnapshot 取数据配置的一致快照
func (c *AppConfig) DataSnapshot() DataConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Data
}

// Mutate 在写锁内修改配置
func (c *AppConfig) Mutate(fn func(*AppConfig)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir     string `toml:"data_dir"`
	MaxUploadMB int64  `toml:"max_upload_mb"` // 上传文件大小上限，超限在入口拒绝
}

// ExtractConfig 提取参数
// 数值上限和匹配阈值都在这里而不是代码常量里，可按业务调整、可按调用测试
type ExtractConfig struct {
	MaxHeaderSearchRows int     `toml:"max_header_search_rows"` // 每个 sheet 扫描表头的最大行数
	ReceiptThreshold    float64 `toml:"receipt_threshold"`      // 收货单匹配阈值
	CargoThreshold      float64 `toml:"cargo_threshold"`        // 货物明细匹配阈值
	MaxVolume           float64 `toml:"max_volume"`             // 体积上限（立方米）
	MaxWeight           float64 `toml:"max_weight"`             // 重量上限（千克）
	MaxQuantity         float64 `toml:"max_quantity"`           // 件数上限
	MaxValue            float64 `toml:"max_value"`              // 货值上限
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20371,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:     "data",
			MaxUploadMB: 20,
		},
		Extract: ExtractConfig{
			MaxHeaderSearchRows: 20,
			ReceiptThreshold:    0.4,
			CargoThreshold:      0.5,
			MaxVolume:           1000,
			MaxWeight:           50000,
			MaxQuantity:         100000,
			MaxValue:            1000000,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	config.mu.RLock()
	data, err := toml.Marshal(config)
	config.mu.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 数据目录位于可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
