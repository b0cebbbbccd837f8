// Package qdrant implements the vector store driven port on the Qdrant
// gRPC client.
package qdrant

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// scrollPageSize bounds one Scroll request; the listing loops until the
// server stops returning a next-page offset.
const scrollPageSize = uint32(512)

// Payload keys. Points carry a nested "metadata" struct written at index
// time; older collections recorded the file ID under the legacy top-level
// key, which reads fall back to.
const (
	payloadMetadataKey = "metadata"
	payloadIdentifier  = "pdf_id"
	payloadFileID      = "gcp_file_id"
	payloadPage        = "page"
	legacyFileIDKey    = "file_id"
)

// VectorStore reads and writes the points of one Qdrant collection.
type VectorStore struct {
	client     *qdrant.Client
	collection string
}

// NewVectorStore creates a vector store over one collection.
func NewVectorStore(client *qdrant.Client, collection string) *VectorStore {
	return &VectorStore{client: client, collection: collection}
}

// ListByIdentifier scrolls the whole collection and aggregates points by
// the identifier in their payload. Pagination runs to exhaustion; an
// error on any page fails the whole listing.
func (s *VectorStore) ListByIdentifier(ctx context.Context) (map[string]driven.VectorAggregate, error) {
	out := make(map[string]driven.VectorAggregate)
	fileIDs := make(map[string]map[string]struct{})

	var offset *qdrant.PointId
	for {
		resp, err := s.client.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Limit:          qdrant.PtrOf(scrollPageSize),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
			WithVectors:    qdrant.NewWithVectors(false),
		})
		if err != nil {
			return nil, fmt.Errorf("scrolling collection %s: %w", s.collection, err)
		}

		for _, point := range resp.GetResult() {
			identifier, fileID, page := parsePayload(point.GetPayload())
			if identifier == "" {
				continue
			}

			agg := out[identifier]
			agg.RecordCount++
			if page > agg.PageCount {
				agg.PageCount = page
			}
			agg.Points = append(agg.Points, driven.PointRef{
				ID:     pointIDString(point.GetId()),
				FileID: fileID,
			})
			if fileID != "" {
				if fileIDs[identifier] == nil {
					fileIDs[identifier] = make(map[string]struct{})
				}
				fileIDs[identifier][fileID] = struct{}{}
			}
			out[identifier] = agg
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	for identifier, ids := range fileIDs {
		agg := out[identifier]
		for id := range ids {
			agg.FileIDs = append(agg.FileIDs, id)
		}
		sort.Strings(agg.FileIDs)
		out[identifier] = agg
	}
	return out, nil
}

// SetPayloadFileID overwrites the file ID inside one point's metadata
// payload, leaving the rest of the metadata untouched.
func (s *VectorStore) SetPayloadFileID(ctx context.Context, pointID, fileID string) error {
	id, err := parsePointID(pointID)
	if err != nil {
		return err
	}

	_, err = s.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: s.collection,
		Payload: map[string]*qdrant.Value{
			payloadFileID: qdrant.NewValueString(fileID),
		},
		Key:            qdrant.PtrOf(payloadMetadataKey),
		PointsSelector: qdrant.NewPointsSelector(id),
	})
	if err != nil {
		return fmt.Errorf("setting payload on point %s: %w", pointID, err)
	}
	return nil
}

// DeleteByIdentifier removes every point whose metadata carries the
// identifier. Qdrant treats a filter matching nothing as a no-op.
func (s *VectorStore) DeleteByIdentifier(ctx context.Context, identifier string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(payloadMetadataKey+"."+payloadIdentifier, identifier),
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("deleting points for %s: %w", identifier, err)
	}
	return nil
}

// parsePayload extracts the identifier, file ID and page number from a
// point payload. The metadata struct is preferred; the legacy top-level
// file_id key is a fallback for collections indexed before the metadata
// nesting.
func parsePayload(payload map[string]*qdrant.Value) (identifier, fileID string, page int) {
	fields := payload
	if meta := payload[payloadMetadataKey]; meta != nil {
		if nested := meta.GetStructValue().GetFields(); nested != nil {
			fields = nested
		}
	}

	identifier = stringField(fields, payloadIdentifier)
	fileID = stringField(fields, payloadFileID)
	if fileID == "" {
		fileID = stringField(fields, legacyFileIDKey)
		if fileID == "" {
			fileID = stringField(payload, legacyFileIDKey)
		}
	}
	page = intField(fields, payloadPage)
	return identifier, fileID, page
}

func stringField(fields map[string]*qdrant.Value, key string) string {
	if v, ok := fields[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func intField(fields map[string]*qdrant.Value, key string) int {
	v, ok := fields[key]
	if !ok {
		return 0
	}
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_IntegerValue:
		return int(kind.IntegerValue)
	case *qdrant.Value_DoubleValue:
		return int(kind.DoubleValue)
	case *qdrant.Value_StringValue:
		if n, err := strconv.Atoi(kind.StringValue); err == nil {
			return n
		}
	}
	return 0
}

// pointIDString renders a point ID as a string, for PointRef and logs.
func pointIDString(id *qdrant.PointId) string {
	switch opts := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Uuid:
		return opts.Uuid
	case *qdrant.PointId_Num:
		return strconv.FormatUint(opts.Num, 10)
	default:
		return ""
	}
}

// parsePointID converts a PointRef ID back to a Qdrant point ID.
func parsePointID(id string) (*qdrant.PointId, error) {
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewID(id), nil
	}
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n), nil
	}
	return nil, fmt.Errorf("invalid point ID %q", id)
}
