package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// BasicAuth guards every route behind the shared admin credential pair.
// Both fields are hashed before comparison so the check runs in constant
// time regardless of input length.
func BasicAuth(username, password string, next http.Handler) http.Handler {
	wantUser := sha256.Sum256([]byte(username))
	wantPass := sha256.Sum256([]byte(password))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if ok {
			gotUser := sha256.Sum256([]byte(user))
			gotPass := sha256.Sum256([]byte(pass))
			userMatch := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
			passMatch := subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
			if userMatch && passMatch {
				next.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="ledger"`)
		respondWithError(w, http.StatusUnauthorized, "Incorrect username or password")
	})
}
