package domain

import "errors"

// Domain errors are recoverable at the request boundary; handlers map them
// to structured payloads instead of letting storage errors escape.
var (
	// ErrCompanyNotFound indicates the resolver found no matching company.
	ErrCompanyNotFound = errors.New("empresa não encontrada")

	// ErrAddressNotFound indicates the company has no headquarters establishment.
	ErrAddressNotFound = errors.New("endereço não encontrado")

	// ErrVectorMissing indicates the company exists but has no materialized
	// CNAE vector. Distinct from ErrCompanyNotFound.
	ErrVectorMissing = errors.New("empresa não possui vetor CNAE")

	// ErrIndexUnavailable indicates the lexical or vector index is not built.
	// The resolver recovers by substring fallback; similarity surfaces it.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrInvalidInput indicates blank or malformed query input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates no language model is configured for the
	// classification or free-query path.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrQueryRejected indicates a generated statement failed the
	// read-only guard and was not executed.
	ErrQueryRejected = errors.New("query rejected")
)
