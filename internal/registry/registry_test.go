package registry

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fieldops-demo/internal/models"
	"fieldops-demo/internal/store"
	"fieldops-demo/internal/store/storetest"
)

func newTestRegistry() *Registry {
	return New(rand.New(rand.NewSource(42)), zap.NewNop())
}

func TestList_DeterministicOrder(t *testing.T) {
	reg := newTestRegistry()

	first := reg.List()
	second := reg.List()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	// 清单第一项固定
	assert.Equal(t, "WELL-001", first[0].ID)
	assert.Equal(t, models.AssetTypeProductionWell, first[0].Type)
}

func TestGet_KnownAndUnknown(t *testing.T) {
	reg := newTestRegistry()

	asset, err := reg.Get("WELL-001")
	require.NoError(t, err)
	assert.Equal(t, "SEN-WELL-001", asset.SensorID)

	_, err = reg.Get("WELL-999")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestSetPosition_UpdatesSnapshot(t *testing.T) {
	reg := newTestRegistry()
	now := time.Now()

	require.NoError(t, reg.SetPosition("TRUCK-001", 32.5, -102.3, now))

	asset, err := reg.Get("TRUCK-001")
	require.NoError(t, err)
	assert.Equal(t, 32.5, asset.Latitude)
	assert.Equal(t, -102.3, asset.Longitude)

	assert.ErrorIs(t, reg.SetPosition("NOPE-1", 0, 0, now), ErrAssetNotFound)
}

func TestRangesFor_FallbackForUnknownType(t *testing.T) {
	ranges := RangesFor(models.AssetType("teleporter"))
	require.Contains(t, ranges, models.ChannelTemperature)
	assert.Equal(t, 50.0, ranges[models.ChannelTemperature].Min)

	well := RangesFor(models.AssetTypeProductionWell)
	assert.Equal(t, 100.0, well[models.ChannelTemperature].Min)
	assert.Equal(t, 220.0, well[models.ChannelTemperature].Max)
	assert.Equal(t, 5.0, well[models.ChannelTemperature].MaxDelta)
}

func TestRegister_WritesDocumentAndGeo(t *testing.T) {
	reg := newTestRegistry()
	fake := storetest.NewFake()
	keys := store.NewKeys("fieldops")

	require.NoError(t, reg.Register(context.Background(), fake, keys))

	members, err := fake.GeoMembers(context.Background(), keys.Locations())
	require.NoError(t, err)
	assert.Len(t, members, len(reg.List()))

	raw, err := fake.JSONGet(context.Background(), keys.Asset("WELL-001"))
	require.NoError(t, err)

	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	asset := doc["asset"]
	assert.Equal(t, "WELL-001", asset["id"])
	assert.Equal(t, "production_well", asset["type"])
	metrics, ok := asset["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, metrics, "temperature")
}

func TestRegister_StoreDownIsFatal(t *testing.T) {
	reg := newTestRegistry()
	fake := storetest.NewFake()
	fake.FailOn["JSON.SET"] = errors.New("connection refused")

	err := reg.Register(context.Background(), fake, store.NewKeys("fieldops"))
	assert.Error(t, err)
}

func TestMobileTypes(t *testing.T) {
	assert.True(t, models.AssetTypeServiceTruck.Mobile())
	assert.False(t, models.AssetTypeProductionWell.Mobile())
	assert.False(t, models.AssetTypeCompressor.Mobile())
}
