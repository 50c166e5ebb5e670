package store

import (
	"sync"

	"github.com/mauv0809/tournament-importer/internal/database"
)

type sqlStore struct {
	db *database.DB
	mu sync.RWMutex
}
