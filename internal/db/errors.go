package db

import "errors"

// Domain-level database error sentinels.
var (
	// Keyword errors
	ErrKeywordNotFound = errors.New("keyword not found")

	// Ranking errors
	ErrRankingNotFound  = errors.New("ranking not found")
	ErrDuplicateRanking = errors.New("a ranking for this keyword, entity and rank already exists")

	// Client errors
	ErrDuplicateClient = errors.New("client already exists")
)
