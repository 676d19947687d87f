package instance

// Environment variables consulted by Load.
const (
	// EnvConfig may hold a full JSON configuration document inline,
	// taking the place of a config file.
	EnvConfig = "BOARDOPS_CONFIG"

	// EnvAPIURL and EnvAPIToken form the legacy single-instance
	// fallback. When both are set and no document is found, Load
	// synthesizes a one-instance configuration from them.
	EnvAPIURL   = "BOARDOPS_API_URL"
	EnvAPIToken = "BOARDOPS_API_TOKEN"

	// EnvReadOnly and EnvWorkspaceID optionally refine the synthesized
	// legacy instance.
	EnvReadOnly    = "BOARDOPS_READ_ONLY"
	EnvWorkspaceID = "BOARDOPS_WORKSPACE_ID"
)

// LegacyInstanceName is the name given to the instance synthesized from
// the legacy environment variables.
const LegacyInstanceName = "default"

// Instance is one named backend connection profile.
//
// APITokenEnv names the environment variable holding the credential; the
// credential itself never appears in the document. APIURL may reference
// environment variables as ${VAR}, expanded at load time.
type Instance struct {
	Name               string   `json:"name"`
	APIURL             string   `json:"apiUrl"`
	APITokenEnv        string   `json:"apiTokenEnv"`
	ReadOnlyMode       bool     `json:"readOnlyMode,omitempty"`
	DefaultWorkspaceID int64    `json:"defaultWorkspaceId,omitempty"`
	Description        string   `json:"description,omitempty"`
	Tags               []string `json:"tags,omitempty"`
}

// Config is a multi-instance configuration document.
type Config struct {
	Version         string     `json:"version"`
	DefaultInstance string     `json:"defaultInstance"`
	Instances       []Instance `json:"instances"`
}

// Strategy identifies how an active instance was chosen.
type Strategy string

const (
	// StrategyExplicit means the caller named the instance.
	StrategyExplicit Strategy = "explicit"

	// StrategyLegacy means the configuration was synthesized from the
	// legacy environment variables; the single instance always wins.
	StrategyLegacy Strategy = "legacy"

	// StrategyDefault means the document's default instance was used.
	StrategyDefault Strategy = "default"
)

// Resolution is the outcome of selecting an active instance.
//
// Token is the loaded credential. Callers must not log it.
type Resolution struct {
	Instance Instance
	Strategy Strategy
	Token    string
}
