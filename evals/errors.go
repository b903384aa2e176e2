package evals

import "errors"

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrJudgeRequired is returned when a judge model is not provided.
	ErrJudgeRequired = errors.New("judge generator required")

	// ErrNoQuestions is returned when the evaluation question set is empty.
	ErrNoQuestions = errors.New("evaluation requires at least one question")
)
