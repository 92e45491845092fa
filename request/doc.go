// Package request builds, signs and executes calls against the platform API.
//
// A call is assembled from small pieces:
//
//   - Core signs the call with HMAC-SHA1 and sends it through a
//     transport.Sender.
//   - An Authenticator supplies the actor parameters and signing key.
//     ActorAuth signs as a user or application and SessionAuth signs on
//     behalf of a session.
//   - Cached serves cacheable responses from a cache.Cache.
//   - SessionRefresh keeps the session store expiry in step with the server.
//
// DefaultFactory composes these for the common cases.
//
// # Usage
//
//	core := request.NewCore("item", "view", request.Config{
//		APIURL:      "https://api.example.net",
//		Credentials: creds,
//		Sender:      transport.NewHTTP(),
//	})
//	core.SetArgument("id", "abc")
//	resp := core.Execute(ctx)
//	if !resp.Success() {
//		return resp.StatusMessage()
//	}
//
// Requests are owned by one caller at a time. Caches and session stores may
// be shared freely.
package request
