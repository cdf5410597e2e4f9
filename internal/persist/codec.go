package persist

import (
	"encoding/json"
	"fmt"
	"math"

	"tower-survival/server/internal/world"
)

// Encode renders state in the on-disk form: two-space indented JSON.
func Encode(state world.PersistentState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("persist: encode: %w", err)
	}
	return data, nil
}

// Decode reads a save leniently. Only a document that is not a JSON object
// is an error; absent, null, or non-numeric fields are left nil and keep
// their current value when the patch is applied.
func Decode(data []byte) (world.PersistentPatch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return world.PersistentPatch{}, fmt.Errorf("persist: decode: %w", err)
	}
	patch := world.PersistentPatch{
		Coin:     number(fields["coin"]),
		Gem:      number(fields["gem"]),
		BestWave: number(fields["bestWave"]),
	}
	var meta map[string]json.RawMessage
	if raw, ok := fields["meta"]; ok && json.Unmarshal(raw, &meta) == nil {
		patch.Meta = world.MetaPatch{
			Damage:     number(meta["damage"]),
			Health:     number(meta["health"]),
			Range:      number(meta["range"]),
			CritChance: number(meta["critChance"]),
		}
	}
	return patch, nil
}

// number accepts any finite JSON number and floors fractions.
func number(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Floor(f)
	if f > math.MaxInt32 {
		f = math.MaxInt32
	} else if f < math.MinInt32 {
		f = math.MinInt32
	}
	v := int(f)
	return &v
}
