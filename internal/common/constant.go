package common

// AuthHeaderName is the HTTP header used to carry the access token on
// outbound requests.
const AuthHeaderName = "Authorization"

// AuthScheme is the expected authorization scheme prefix.
const AuthScheme = "Bearer"
