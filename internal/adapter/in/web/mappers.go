package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"postboard/internal/service"
	"postboard/pkg/logger"
)

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad post id %q: %w", raw, service.ErrInvalidRequest)
	}
	return id, nil
}

func toListRequest(r *http.Request) service.ListPostsRequest {
	q := r.URL.Query()
	req := service.ListPostsRequest{Query: q.Get("q")}
	if q.Has("sort") || q.Has("order") {
		req.Field = service.ParseSortField(q.Get("sort"))
		req.Order = service.ParseSortOrder(q.Get("order"))
	}
	return req
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %v: %w", err, service.ErrInvalidRequest)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("error writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "error", err)
	}
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
