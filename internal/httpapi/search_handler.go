package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"fieldops-demo/internal/store"
)

// 可用于过滤与联想的 TAG 字段
var searchTagFields = map[string]bool{
	"type":         true,
	"manufacturer": true,
	"status":       true,
	"region":       true,
	"team":         true,
}

var searchReturnFields = []string{
	"id", "name", "type", "manufacturer", "status", "region", "team",
}

// SearchHandler RediSearch 资产检索
type SearchHandler struct {
	st     store.Store
	keys   store.Keys
	logger *zap.Logger
}

// NewSearchHandler 创建搜索 Handler
func NewSearchHandler(st store.Store, keys store.Keys, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{st: st, keys: keys, logger: logger}
}

// SearchAssets 全文检索 + TAG 过滤
func (h *SearchHandler) SearchAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	query := params.Get("q")
	limit := parseInt(params.Get("limit"), 20)
	offset := parseInt(params.Get("offset"), 0)

	var parts []string
	if query != "" && query != "*" {
		parts = append(parts, "("+query+")")
	}
	filters := Envelope{}
	for field := range searchTagFields {
		value := params.Get(field)
		filters[field] = value
		if value != "" {
			parts = append(parts, fmt.Sprintf("@%s:{%s}", field, value))
		}
	}
	searchQuery := "*"
	if len(parts) > 0 {
		searchQuery = strings.Join(parts, " ")
	}

	total, docs, err := h.st.Search(ctx, h.keys.SearchIndex(), searchQuery, offset, limit, searchReturnFields)
	if err != nil {
		h.logger.Error("SearchAssets failed", zap.String("query", searchQuery), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"total":   total,
		"count":   len(docs),
		"assets":  docs,
		"query":   searchQuery,
		"filters": filters,
	}))
}

// Suggestions TAG 字段的取值联想
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	field := r.URL.Query().Get("field")
	if field == "" {
		field = "type"
	}
	if !searchTagFields[field] {
		writeJSON(w, http.StatusBadRequest, Fail("Field "+field+" is not available for suggestions"))
		return
	}

	values, err := h.st.TagVals(ctx, h.keys.SearchIndex(), field)
	if err != nil {
		h.logger.Error("Suggestions failed", zap.String("field", field), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(Envelope{
		"field":       field,
		"suggestions": values,
	}))
}
