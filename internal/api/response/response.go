// Package response concentra a escrita de respostas JSON dos handlers.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
)

// Handle processa o resultado do serviço e envia a resposta padronizada ao cliente.
// Com err nil escreve data com successStatus; caso contrário traduz o erro.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				log.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		log.Error(fmt.Sprintf("Erro de Servidor: %s em %s %s", category, r.Method, r.URL.Path), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"path":  r.URL.Path,
			"error": message,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Error: message})
}

// Decode lê o corpo JSON da requisição em dst.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewValidationError("Payload JSON inválido.")
	}
	return nil
}

// PageParam lê o parâmetro de paginação "page"; ausente ou inválido vira 1.
func PageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
