package config

import (
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Task     TaskConfig     `mapstructure:"task"`
	Mint     MintConfig     `mapstructure:"mint"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port  string `mapstructure:"port"`
	Mode  string `mapstructure:"mode"`
	Owner string `mapstructure:"owner"` // 配置变更的唯一授权地址
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 支付通道配置
type ChainConfig struct {
	Enabled    bool   `mapstructure:"enabled"`     // 关闭时走纯记账通道
	ChainId    int64  `mapstructure:"chain_id"`    // 链ID
	RpcUrl     string `mapstructure:"rpc_url"`     // RPC节点URL
	PrivateKey string `mapstructure:"private_key"` // 出账私钥
	GasLimit   uint64 `mapstructure:"gas_limit"`   // 单笔转账gas上限
}

// PolicyConfig 费率配置初始值，仅首次启动建表时写入
type PolicyConfig struct {
	PlatformFee      int64  `mapstructure:"platform_fee"`
	CommunityFee     int64  `mapstructure:"community_fee"`
	AffiliateFee     int64  `mapstructure:"affiliate_fee"`
	RejectThreshold  int64  `mapstructure:"reject_threshold"`
	MaxDuration      int64  `mapstructure:"max_duration"`
	RejectionWindow  int64  `mapstructure:"rejection_window"`
	PlatformAddress  string `mapstructure:"platform_address"`
	CommunityAddress string `mapstructure:"community_address"`
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

// MintConfig 纪念凭证铸造配置
type MintConfig struct {
	Workers     int `mapstructure:"workers"`      // 协程池大小
	MaxAttempts int `mapstructure:"max_attempts"` // 单条请求最大重试次数
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/logos")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "logos")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.enabled", false)
	viper.SetDefault("chain.gas_limit", 21000)
	viper.SetDefault("policy.platform_fee", 100000)
	viper.SetDefault("policy.community_fee", 100000)
	viper.SetDefault("policy.affiliate_fee", 50000)
	viper.SetDefault("policy.reject_threshold", 5000)
	viper.SetDefault("policy.max_duration", 60)
	viper.SetDefault("policy.rejection_window", 7)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("mint.workers", 4)
	viper.SetDefault("mint.max_attempts", 5)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
