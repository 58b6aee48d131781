// Package httpstore implements secrets.Store against a KV-v2-style HTTP
// secret store: GET <base>/v1/<path> returning a {data:{data, metadata}}
// envelope. TLS, authentication, and token renewal are left to the
// caller-supplied *http.Client.
package httpstore
