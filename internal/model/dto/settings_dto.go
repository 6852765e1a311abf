package dto

// Settings 管理后台的完整配置聚合，一次请求收发全部分组
type Settings struct {
	Branding     BrandingSection     `json:"branding"`
	General      GeneralSection      `json:"general"`
	Email        EmailSection        `json:"email"`
	Subscription SubscriptionSection `json:"subscription"`
	Stripe       StripeSection       `json:"stripe"`
	Privacy      PrivacySection      `json:"privacy"`
	Storage      StorageSection      `json:"storage"`
}

type BrandingSection struct {
	SiteName     string `json:"siteName" binding:"required,max=100"`
	LogoURL      string `json:"logoUrl" binding:"max=500"`
	FaviconURL   string `json:"faviconUrl" binding:"max=500"`
	PrimaryColor string `json:"primaryColor" binding:"required,hexcolor"`
	AccentColor  string `json:"accentColor" binding:"required,hexcolor"`
	DefaultFont  string `json:"defaultFont" binding:"required,max=100"`
}

type GeneralSection struct {
	SiteDescription   string `json:"siteDescription" binding:"max=500"`
	SiteURL           string `json:"siteUrl" binding:"omitempty,url"`
	ContactEmail      string `json:"contactEmail" binding:"omitempty,email"`
	SupportEmail      string `json:"supportEmail" binding:"omitempty,email"`
	DefaultLanguage   string `json:"defaultLanguage" binding:"max=10"`
	Timezone          string `json:"timezone" binding:"max=64"`
	MaintenanceMode   bool   `json:"maintenanceMode"`
	AllowRegistration bool   `json:"allowRegistration"`
}

type EmailSection struct {
	Provider            string `json:"provider" binding:"omitempty,oneof=smtp"`
	SMTPHost            string `json:"smtpHost" binding:"max=255"`
	SMTPPort            int    `json:"smtpPort" binding:"min=0,max=65535"`
	SMTPUser            string `json:"smtpUser" binding:"max=255"`
	SMTPPassword        string `json:"smtpPassword" binding:"max=255"`
	FromEmail           string `json:"fromEmail" binding:"omitempty,email"`
	FromName            string `json:"fromName" binding:"max=100"`
	EnableNotifications bool   `json:"enableNotifications"`
}

type SubscriptionSection struct {
	EnableSubscriptions bool   `json:"enableSubscriptions"`
	DefaultPlan         string `json:"defaultPlan" binding:"max=50"`
	TrialDays           int    `json:"trialDays" binding:"min=0,max=365"`
	Currency            string `json:"currency" binding:"omitempty,len=3"`
	AllowPlanChanges    bool   `json:"allowPlanChanges"`
	FreeMinutes         int    `json:"freeMinutes" binding:"min=0"`
}

type StripeSection struct {
	PublishableKey string `json:"publishableKey"`
	SecretKey      string `json:"secretKey"`
	WebhookSecret  string `json:"webhookSecret"`
	EnableLiveMode bool   `json:"enableLiveMode"`
}

type PrivacySection struct {
	EnableAnalytics   bool   `json:"enableAnalytics"`
	CookieConsent     bool   `json:"cookieConsent"`
	DataRetentionDays int    `json:"dataRetentionDays" binding:"min=0"`
	PrivacyPolicyURL  string `json:"privacyPolicyUrl" binding:"omitempty,url"`
	TermsOfServiceURL string `json:"termsOfServiceUrl" binding:"omitempty,url"`
	AllowDataExport   bool   `json:"allowDataExport"`
}

type StorageSection struct {
	Provider         string   `json:"provider" binding:"required,oneof=local s3 oss gcs azure"`
	MaxFileSize      int64    `json:"maxFileSize" binding:"min=0"` // MB
	AllowedFileTypes []string `json:"allowedFileTypes"`
	RetentionDays    int      `json:"retentionDays" binding:"min=0"`
	LocalPath        string   `json:"localPath"`
	S3Bucket         string   `json:"s3Bucket"`
	S3Region         string   `json:"s3Region"`
	S3Endpoint       string   `json:"s3Endpoint"`
	S3AccessKey      string   `json:"s3AccessKey"`
	S3SecretKey      string   `json:"s3SecretKey"`
}

// TestStripeConnectionRequest 测试 Stripe 连接
type TestStripeConnectionRequest struct {
	PublishableKey string `json:"publishableKey"`
	SecretKey      string `json:"secretKey"`
	WebhookSecret  string `json:"webhookSecret"`
}

// TestEmailRequest 发送测试邮件
type TestEmailRequest struct {
	To string `json:"to" binding:"required,email"`
}
