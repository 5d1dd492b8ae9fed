package domain

import "time"

// Reader é o perfil de leitor, ligado opcionalmente a um User.
type Reader struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id,omitempty"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Address          string    `json:"address"`
	Email            string    `json:"email,omitempty"`
	PhoneNumber      string    `json:"phone_number"`
	CardNumber       string    `json:"card_number"`
	RegistrationDate time.Time `json:"registration_date"`
}

// FullName retorna "Nome Sobrenome".
func (r Reader) FullName() string {
	return r.FirstName + " " + r.LastName
}

// ReaderSummary é a linha da listagem de leitores para a equipe.
type ReaderSummary struct {
	Reader
	ActiveLoans int `json:"active_loans"`
}

// RegistrationStatus é o estado de um pedido de cadastro de leitor.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// ReaderProfile são os dados pessoais enviados no pedido de cadastro.
type ReaderProfile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// RegistrationRequest é o pedido de cadastro de leitor feito por um usuário.
type RegistrationRequest struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	Profile         ReaderProfile      `json:"profile"`
	Status          RegistrationStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	ProcessedBy     string             `json:"processed_by,omitempty"`
	ProcessedAt     *time.Time         `json:"processed_at,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`

	// Preenchidos na listagem.
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// RegistrationFilter filtra a listagem de pedidos. Status "processed" seleciona
// approved e rejected.
type RegistrationFilter struct {
	Status string
	Page   int
	Limit  int
}

// ReaderStatus responde se a identidade já é leitor ou tem pedido pendente.
type ReaderStatus struct {
	UserID            string `json:"user_id"`
	IsReader          bool   `json:"is_reader"`
	HasPendingRequest bool   `json:"has_pending_request"`
}
