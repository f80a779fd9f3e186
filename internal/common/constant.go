package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// RenewalCookieName is the default cookie the renewal token travels in.
const RenewalCookieName = "refreshToken"
