package util

// Runtime config
var (
	BindAddress  string
	JwtSecret    []byte
	DataFilePath string
	GeminiApiKey string
	GeminiModel  string
	BcryptCost   int
)

const (
	DefaultBindAddress   = "0.0.0.0:5000"
	DefaultDataFilePath  = "./data/users.json"
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
	DefaultJwtSecret     = "dev-secret-change-in-production"
	DefaultGeminiModel   = "gemini-2.0-flash-exp"
	DefaultBcryptCost    = 10
)

const (
	BindAddressEnvVar   = "BIND_ADDRESS"
	JwtSecretEnvVar     = "JWT_SECRET"
	DataFilePathEnvVar  = "DATA_FILE_PATH"
	AdminUsernameEnvVar = "ADMIN_USERNAME"
	AdminPasswordEnvVar = "ADMIN_PASSWORD"
	GeminiApiKeyEnvVar  = "GEMINI_API_KEY"
	GeminiModelEnvVar   = "GEMINI_MODEL"
	BcryptCostEnvVar    = "BCRYPT_COST"
	LogLevel            = "LOG_LEVEL"
)
