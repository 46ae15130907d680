package constants

// Config
const VerboseEnvVar = "VERBOSE"

// File system
const TokenFileName = ".concierge_client_tokens.json"

// Error messages
const ErrMsgNotAuthenticated = "You are not logged in. You can use `cbag login` to authenticate."

// Globus Auth
const GlobusAuthDomain = "https://auth.globus.org"
const GlobusAuthResourceServer = "auth.globus.org"
const NativeAppRedirectURI = "https://auth.globus.org/v2/web/auth-code"
const ConciergeClientID = "d686ffce-63be-4dd4-9094-42008f754d0c"
const ConciergeResourceServer = "524361f2-e4a9-4bd0-a3a6-03e365cac8a9"
const ConciergeScope = "https://auth.globus.org/scopes/" + ConciergeResourceServer + "/concierge"

// Globus web app
const GlobusWebTask = "https://app.globus.org/activity/%s/overview"
const GlobusWebTransfer = "https://app.globus.org/file-manager?%s"

// Concierge
const DefaultTransferLabel = "Concierge Bag Transfer"
const DefaultMinidServer = "https://identifiers.fair-research.org/"
