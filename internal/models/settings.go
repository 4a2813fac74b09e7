package models

// Keys of the config table.
const (
	ConfigAdminUsername     = "admin_username"
	ConfigAdminPassword     = "admin_password"
	ConfigHiddenPassword    = "hidden_password"
	ConfigBookmarkPassword  = "bookmark_password"
	ConfigSiteTitle         = "site_title"
	ConfigSiteIcon          = "site_icon"
	ConfigFavicon           = "favicon"
	ConfigFooterText        = "footer_text"
	ConfigAdminPath         = "admin_path"
	ConfigIPBindingEnabled  = "ip_binding_enabled"
	ConfigDefaultCategoryID = "default_category_id"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPath     = "/admin"
	DefaultSiteTitle     = "Nav"
	DefaultSiteIcon      = "🥭"
)

type SiteSettings struct {
	SiteTitle  string `json:"site_title"`
	SiteIcon   string `json:"site_icon"`
	Favicon    string `json:"favicon"`
	FooterText string `json:"footer_text"`
}

// SiteSettingsUpdate is a partial update of the branding fields.
type SiteSettingsUpdate struct {
	SiteTitle  *string `json:"site_title"`
	SiteIcon   *string `json:"site_icon"`
	Favicon    *string `json:"favicon"`
	FooterText *string `json:"footer_text"`
}

type AdminAccount struct {
	Username string `json:"username"`
}

type AdminAccountUpdate struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type SecuritySettings struct {
	IPBindingEnabled bool `json:"ip_binding_enabled"`
}

// IconUpload describes a stored icon.
type IconUpload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
