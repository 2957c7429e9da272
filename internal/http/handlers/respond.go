package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// respondRaw writes pre-serialized JSON, used for cache hits.
func respondRaw(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// respondWithError sends a JSON error message.
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"msg": message})
}

// respondServerError logs the underlying failure and returns a generic body
// so internals never leak to clients.
func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("server error: %v", err)
	respondWithError(w, http.StatusInternalServerError, "Server Error")
}

// maskEmail redacts the local part of an address for logging.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
