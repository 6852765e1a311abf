package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	OAuth         OAuthConfig         `mapstructure:"oauth"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Upload        UploadConfig        `mapstructure:"upload"`
	CORS          CORSConfig          `mapstructure:"cors"`
	BrandingCache BrandingCacheConfig `mapstructure:"branding_cache"`
	Stripe        StripeConfig        `mapstructure:"stripe"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OAuthConfig struct {
	Github GithubOAuthConfig `mapstructure:"github"`
}

type GithubOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

// AuthConfig 账号与密码策略
type AuthConfig struct {
	SocialAccountPrefix           string `mapstructure:"social_account_prefix"`
	MinPasswordLength             int    `mapstructure:"min_password_length"`
	SocialRequiresCurrentPassword bool   `mapstructure:"social_requires_current_password"`
}

// StorageConfig 资源文件存储后端
type StorageConfig struct {
	Provider string             `mapstructure:"provider"` // local, s3, oss
	Local    LocalStorageConfig `mapstructure:"local"`
	S3       S3StorageConfig    `mapstructure:"s3"`
	OSS      OSSConfig          `mapstructure:"oss"`
}

type LocalStorageConfig struct {
	Root      string `mapstructure:"root"`       // 本地写入目录
	PublicURL string `mapstructure:"public_url"` // 对外访问前缀，如 /uploads
}

type S3StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicURL       string `mapstructure:"public_url"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type UploadConfig struct {
	MaxAssetSize        int64    `mapstructure:"max_asset_size"`        // 品牌资源最大大小（字节）
	AllowedContentTypes []string `mapstructure:"allowed_content_types"` // 允许的图片类型
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type BrandingCacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// StripeConfig 连通性测试调用 Stripe 时的超时
type StripeConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

func Load(configPath string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("jwt.expire_hours", 168)
	v.SetDefault("auth.social_account_prefix", "oauth_")
	v.SetDefault("auth.min_password_length", 8)
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local.root", "./uploads")
	v.SetDefault("storage.local.public_url", "/uploads")
	v.SetDefault("upload.max_asset_size", 5*1024*1024)
	v.SetDefault("upload.allowed_content_types", []string{
		"image/png", "image/jpeg", "image/webp", "image/gif",
		"image/svg+xml", "image/x-icon", "image/vnd.microsoft.icon",
	})
	v.SetDefault("branding_cache.ttl_seconds", 300)
	v.SetDefault("stripe.timeout_seconds", 10)
}
