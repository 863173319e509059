package loanauth

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		encodeMessage(w, http.StatusOK, "server Running")
	})
}

func RegisterHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRegisterRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		msg, err := svc.Register(r.Context(), req)
		if err != nil {
			encodeError(err, w)
			return
		}
		encodeMessage(w, http.StatusCreated, msg)
	})
}

func LoginHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLoginRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		res, err := svc.Login(r.Context(), req)
		if err != nil {
			encodeError(err, w)
			return
		}
		if err := json.NewEncoder(w).Encode(res); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func GetUserAndProfileHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		res, err := svc.GetUserAndProfile(r.Context(), bearerToken(r))
		if err != nil {
			encodeError(err, w)
			return
		}
		if err := json.NewEncoder(w).Encode(res); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func LogoutHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := svc.Logout(r.Context(), bearerToken(r)); err != nil {
			encodeError(err, w)
			return
		}
		encodeMessage(w, http.StatusOK, "Logged Out")
	})
}

// bearerToken prefers the Authorization header and falls back to the
// token query parameter the frontend historically sends.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func encodeError(err error, w http.ResponseWriter) {
	switch err {
	case ErrFieldsRequired, ErrInvalidRole, ErrExistingProfile, ErrExistingEmail:
		w.WriteHeader(http.StatusConflict)
	case ErrNotFound, ErrProfileNotFound:
		w.WriteHeader(http.StatusNotFound)
	case ErrInvalidCredentials:
		w.WriteHeader(http.StatusBadRequest)
	case ErrUnauthenticated:
		w.WriteHeader(http.StatusUnauthorized)
	case ErrStorageUnavailable:
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": err.Error(),
	})
}

func encodeMessage(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": msg,
	})
}

func decodeRegisterRequest(body io.ReadCloser) (registerRequest, error) {
	req := registerRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return registerRequest{}, err
	}
	return req, nil
}

func decodeLoginRequest(body io.ReadCloser) (loginRequest, error) {
	req := loginRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return loginRequest{}, err
	}
	return req, nil
}
