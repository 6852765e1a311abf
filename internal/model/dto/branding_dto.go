package dto

// BrandingUpdate 品牌表单中的文本字段，空字段表示不修改
type BrandingUpdate struct {
	SiteName     string `form:"siteName" binding:"omitempty,max=100"`
	PrimaryColor string `form:"primaryColor" binding:"omitempty,hexcolor"`
	AccentColor  string `form:"accentColor" binding:"omitempty,hexcolor"`
	DefaultFont  string `form:"defaultFont" binding:"omitempty,max=100"`
}

// BrandingAsset 上传的 logo/favicon 文件内容
type BrandingAsset struct {
	Filename    string
	ContentType string
	Data        []byte
}
