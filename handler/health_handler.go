package handler

import "net/http"

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendSuccess(w, map[string]string{"message": "Study Assistant API is running"})
	}
}
