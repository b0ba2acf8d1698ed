//go:build unit || e2e

package builder

import (
	"time"

	"sanatorium-booking/internal/domain/room"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type RoomBuilder struct {
	ID                uuid.UUID
	Category          room.Category
	Name              string
	Capacity          int
	NightlyPriceMinor int64
	Description       string
	Active            bool
	CreatedAt         time.Time
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		ID:                uuid.New(),
		Category:          room.CategoryStandard,
		Name:              "Room " + uuid.NewString()[:8],
		Capacity:          2,
		NightlyPriceMinor: 5000,
		Description:       "Garden view",
		Active:            true,
		CreatedAt:         DefaultNow,
	}
}

func (b *RoomBuilder) With(mutate func(*RoomBuilder)) *RoomBuilder {
	mutate(b)
	return b
}

func (b *RoomBuilder) WithCategory(c room.Category) *RoomBuilder {
	b.Category = c
	return b
}

func (b *RoomBuilder) WithName(name string) *RoomBuilder {
	b.Name = name
	return b
}

func (b *RoomBuilder) WithCapacity(n int) *RoomBuilder {
	b.Capacity = n
	return b
}

func (b *RoomBuilder) WithNightlyPrice(minor int64) *RoomBuilder {
	b.NightlyPriceMinor = minor
	return b
}

func (b *RoomBuilder) AsInactive() *RoomBuilder {
	b.Active = false
	return b
}

func (b *RoomBuilder) BuildDomain() *room.Room {
	return room.ReconstructRoom(
		b.ID, b.Category, b.Name, b.Capacity, b.NightlyPriceMinor,
		b.Description, b.Active, b.CreatedAt, b.CreatedAt,
	)
}

func (b *RoomBuilder) BuildInfra() sqlc.Rooms {
	return sqlc.Rooms{
		ID:                b.ID,
		Category:          b.Category.String(),
		Name:              b.Name,
		Capacity:          int32(b.Capacity),
		NightlyPriceMinor: b.NightlyPriceMinor,
		Description:       b.Description,
		IsActive:          b.Active,
		CreatedAt:         pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:         pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
	}
}

func (b *RoomBuilder) BuildView() *queries.RoomView {
	return &queries.RoomView{
		ID:                b.ID,
		Category:          b.Category.String(),
		Name:              b.Name,
		Capacity:          b.Capacity,
		NightlyPriceMinor: b.NightlyPriceMinor,
		Description:       b.Description,
		IsActive:          b.Active,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.CreatedAt,
	}
}
