// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrEmptyCorpus is returned when a keyword index is built over zero documents.
	ErrEmptyCorpus = errors.New("empty corpus: keyword index requires at least one document")

	// ErrNoDocuments is returned when the backing store holds no documents.
	// Ingestion must run before retrieval.
	ErrNoDocuments = errors.New("no documents found: run ingestion first")

	// ErrSearchTimeout is returned when an embedding or vector-index call
	// exceeds the configured timeout.
	ErrSearchTimeout = errors.New("search collaborator timed out")

	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
