package storage

import "rentvision/models"

// RecordStore is the interface any persistent backend must satisfy.
type RecordStore interface {
	Write(records []*models.RentalRecord) error
	FetchAll() ([]*models.RentalRecord, error)
	Close() error
}
