package nakama

import (
	"bytes"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// matchLabelJSON renders the queryable match label. Keys line up with the
// +label.* filters used by the quick match RPC. The protojson output is
// compacted because its whitespace is deliberately unstable.
func matchLabelJSON(openSeats int, phase, tier string) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKeyOpenSeats: openSeats,
		MatchLabelKeyPhase:     phase,
		MatchLabelKeyGame:      MatchLabelGameName,
		MatchLabelKeyTier:      tier,
	})
	if err != nil {
		return "", err
	}
	payload, err := (protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return "", err
	}
	return compact.String(), nil
}
