package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
	RoutesPath  = "/routes"
)

// Account Routes
const (
	RegisterPath   = "/register"
	LoginPath      = "/login"
	LogoutPath     = "/logout"
	CheckAuthPath  = "/check_auth"
	ForgotPassPath = "/forgot_password"
	VerifyCodePath = "/verify_code"
	ResetPassPath  = "/reset_password"
)

// Chat Routes
const (
	ChatPath    = "/chat"
	NewChatPath = "/new_chat"
)

// Page Routes
const (
	PageIndex = "/"
	PageHome  = "/home.html"
	PageReset = "/reset.html"

	IndexFile = "index.html"
	HomeFile  = "home.html"
	ResetFile = "reset.html"
)
