package models

import "github.com/google/uuid"

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Gallery{},
		&PieceType{},
		&PieceSubtype{},
		&Piece{},
		&StockItem{},
		&StockMovement{},
		&Order{},
		&OrderItem{},
		&Event{},
		&EventPiece{},
	}
}
