package listing

import (
	"testing"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProperty(t *testing.T) *Property {
	t.Helper()
	address := valueobject.MustNewAddress("12 Independence Ave", "Woodlands", "Lusaka", "Lusaka")
	property, err := NewProperty("3 bed house in Woodlands", "Spacious family home",
		address, valueobject.NewMoneyZMWFromFloat(850000), PropertyTypeHouse, uuid.New())
	require.NoError(t, err)
	return property
}

// ============================================================
// Construction
// ============================================================

func TestNewProperty(t *testing.T) {
	t.Run("creates draft listing", func(t *testing.T) {
		property := createTestProperty(t)
		assert.Equal(t, PropertyStatusDraft, property.Status)
		assert.Equal(t, PropertyTypeHouse, property.Type)
		assert.False(t, property.IsPurchasable())
		assert.False(t, property.IsPublic())
		assert.Empty(t, property.Media)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		address := valueobject.MustNewAddress("1 Main St", "", "Kitwe", "")
		_, err := NewProperty("  ", "", address, valueobject.NewMoneyZMWFromFloat(100), PropertyTypeHouse, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		address := valueobject.MustNewAddress("1 Main St", "", "Kitwe", "")
		_, err := NewProperty("House", "", address, valueobject.ZeroZMW(), PropertyTypeHouse, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects empty address", func(t *testing.T) {
		_, err := NewProperty("House", "", valueobject.EmptyAddress(), valueobject.NewMoneyZMWFromFloat(100), PropertyTypeHouse, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		address := valueobject.MustNewAddress("1 Main St", "", "Kitwe", "")
		_, err := NewProperty("House", "", address, valueobject.NewMoneyZMWFromFloat(100), PropertyType("castle"), uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		address := valueobject.MustNewAddress("1 Main St", "", "Kitwe", "")
		_, err := NewProperty("House", "", address, valueobject.NewMoneyZMWFromFloat(100), PropertyTypeHouse, uuid.Nil)
		assert.Error(t, err)
	})
}

// ============================================================
// Status transitions
// ============================================================

func TestPropertyStatusTransitions(t *testing.T) {
	t.Run("draft to published", func(t *testing.T) {
		property := createTestProperty(t)
		require.NoError(t, property.Publish())
		assert.Equal(t, PropertyStatusPublished, property.Status)
		assert.True(t, property.IsPurchasable())
		assert.True(t, property.IsPublic())
		require.NotNil(t, property.ListedAt)

		events := property.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePropertyPublished, events[0].EventType())
	})

	t.Run("cannot publish twice", func(t *testing.T) {
		property := createTestProperty(t)
		require.NoError(t, property.Publish())
		assert.ErrorIs(t, property.Publish(), shared.ErrInvalidState)
	})

	t.Run("published to sold", func(t *testing.T) {
		property := createTestProperty(t)
		require.NoError(t, property.Publish())
		require.NoError(t, property.MarkSold())
		assert.Equal(t, PropertyStatusSold, property.Status)
		assert.True(t, property.Status.IsTerminal())
	})

	t.Run("cannot sell a draft", func(t *testing.T) {
		property := createTestProperty(t)
		assert.ErrorIs(t, property.MarkSold(), shared.ErrInvalidState)
	})

	t.Run("published to rented", func(t *testing.T) {
		property := createTestProperty(t)
		require.NoError(t, property.Publish())
		require.NoError(t, property.MarkRented())
		assert.Equal(t, PropertyStatusRented, property.Status)
	})

	t.Run("unpublish returns to draft", func(t *testing.T) {
		property := createTestProperty(t)
		require.NoError(t, property.Publish())
		require.NoError(t, property.Unpublish())
		assert.Equal(t, PropertyStatusDraft, property.Status)
	})

	t.Run("sold listing cannot be updated", func(t *testing.T) {
		property := createTestProperty(t)
		require.NoError(t, property.Publish())
		require.NoError(t, property.MarkSold())
		err := property.UpdateDetails("New title", "", valueobject.NewMoneyZMWFromFloat(100), 3, 2, 200)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestPropertyUpdateDetails(t *testing.T) {
	property := createTestProperty(t)
	versionBefore := property.GetVersion()

	err := property.UpdateDetails("Renovated 3 bed house", "Fresh paint",
		valueobject.NewMoneyZMWFromFloat(900000), 3, 2, 240)
	require.NoError(t, err)
	assert.Equal(t, "Renovated 3 bed house", property.Title)
	assert.Equal(t, 3, property.Bedrooms)
	assert.Equal(t, versionBefore+1, property.GetVersion())

	assert.Error(t, property.UpdateDetails("", "", valueobject.NewMoneyZMWFromFloat(1), 0, 0, 0))
	assert.Error(t, property.UpdateDetails("House", "", valueobject.NewMoneyZMWFromFloat(1), -1, 0, 0))
}

// ============================================================
// Media invariant: at most one primary item
// ============================================================

func TestPropertyMedia(t *testing.T) {
	t.Run("first media becomes primary", func(t *testing.T) {
		property := createTestProperty(t)
		media, err := property.AddMedia("https://cdn.example.com/1.jpg", MediaKindImage, "Front", false)
		require.NoError(t, err)
		assert.True(t, media.IsPrimary)
		require.NotNil(t, property.PrimaryMedia())
		assert.Equal(t, media.ID, property.PrimaryMedia().ID)
	})

	t.Run("new primary demotes existing primary", func(t *testing.T) {
		property := createTestProperty(t)
		first, err := property.AddMedia("https://cdn.example.com/1.jpg", MediaKindImage, "", true)
		require.NoError(t, err)
		second, err := property.AddMedia("https://cdn.example.com/2.jpg", MediaKindImage, "", true)
		require.NoError(t, err)

		primaries := 0
		for _, m := range property.Media {
			if m.IsPrimary {
				primaries++
			}
		}
		assert.Equal(t, 1, primaries)
		assert.Equal(t, second.ID, property.PrimaryMedia().ID)
		assert.NotEqual(t, first.ID, property.PrimaryMedia().ID)
	})

	t.Run("set primary swaps atomically", func(t *testing.T) {
		property := createTestProperty(t)
		first, _ := property.AddMedia("https://cdn.example.com/1.jpg", MediaKindImage, "", true)
		second, _ := property.AddMedia("https://cdn.example.com/2.jpg", MediaKindImage, "", false)

		require.NoError(t, property.SetPrimaryMedia(second.ID))
		assert.Equal(t, second.ID, property.PrimaryMedia().ID)

		require.NoError(t, property.SetPrimaryMedia(first.ID))
		assert.Equal(t, first.ID, property.PrimaryMedia().ID)
	})

	t.Run("set primary for unknown media", func(t *testing.T) {
		property := createTestProperty(t)
		assert.ErrorIs(t, property.SetPrimaryMedia(uuid.New()), shared.ErrNotFound)
	})

	t.Run("removing primary promotes next item", func(t *testing.T) {
		property := createTestProperty(t)
		first, _ := property.AddMedia("https://cdn.example.com/1.jpg", MediaKindImage, "", true)
		second, _ := property.AddMedia("https://cdn.example.com/2.jpg", MediaKindImage, "", false)

		require.NoError(t, property.RemoveMedia(first.ID))
		require.Len(t, property.Media, 1)
		assert.Equal(t, second.ID, property.PrimaryMedia().ID)
		assert.Equal(t, 0, property.Media[0].SortOrder)
	})

	t.Run("removing last media leaves none", func(t *testing.T) {
		property := createTestProperty(t)
		media, _ := property.AddMedia("https://cdn.example.com/1.jpg", MediaKindImage, "", true)
		require.NoError(t, property.RemoveMedia(media.ID))
		assert.Nil(t, property.PrimaryMedia())
	})

	t.Run("rejects invalid media", func(t *testing.T) {
		property := createTestProperty(t)
		_, err := property.AddMedia("", MediaKindImage, "", false)
		assert.Error(t, err)
		_, err = property.AddMedia("https://cdn.example.com/1.gif", MediaKind("gif"), "", false)
		assert.Error(t, err)
	})
}

func TestPropertyAssignAgent(t *testing.T) {
	property := createTestProperty(t)
	agentID := uuid.New()

	require.NoError(t, property.AssignAgent(agentID))
	require.NotNil(t, property.AgentID)
	assert.Equal(t, agentID, *property.AgentID)

	assert.Error(t, property.AssignAgent(uuid.Nil))
}

func TestMediaListScanValue(t *testing.T) {
	property := createTestProperty(t)
	_, err := property.AddMedia("https://cdn.example.com/1.jpg", MediaKindImage, "Front", true)
	require.NoError(t, err)

	v, err := property.Media.Value()
	require.NoError(t, err)

	var scanned MediaList
	require.NoError(t, scanned.Scan(v))
	require.Len(t, scanned, 1)
	assert.Equal(t, property.Media[0].ID, scanned[0].ID)
	assert.True(t, scanned[0].IsPrimary)
}
