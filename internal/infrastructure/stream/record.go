package stream

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/go-push-reactor/internal/domain"
)

// recordEvent converts a raw stream record into a store-agnostic ChangeEvent.
// Every table has a single string hash key, so the document id is the sole
// key attribute; the owning company id is read from whichever image exists.
func recordEvent(source string, rec streamtypes.Record) (domain.ChangeEvent, error) {
	if rec.Dynamodb == nil {
		return domain.ChangeEvent{}, fmt.Errorf("stream record has no payload")
	}

	var kind domain.EventKind
	switch rec.EventName {
	case streamtypes.OperationTypeInsert:
		kind = domain.EventCreate
	case streamtypes.OperationTypeModify:
		kind = domain.EventUpdate
	case streamtypes.OperationTypeRemove:
		kind = domain.EventDelete
	default:
		return domain.ChangeEvent{}, fmt.Errorf("unknown stream operation %q", rec.EventName)
	}

	id, err := keyValue(rec.Dynamodb.Keys)
	if err != nil {
		return domain.ChangeEvent{}, err
	}

	beforeDoc, err := imageMap(rec.Dynamodb.OldImage)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("decode old image: %w", err)
	}
	afterDoc, err := imageMap(rec.Dynamodb.NewImage)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("decode new image: %w", err)
	}

	ev := domain.ChangeEvent{
		Source:    source,
		Kind:      kind,
		ID:        id,
		CompanyID: companyID(afterDoc, beforeDoc),
	}
	if ev.Before, err = docJSON(beforeDoc); err != nil {
		return domain.ChangeEvent{}, err
	}
	if ev.After, err = docJSON(afterDoc); err != nil {
		return domain.ChangeEvent{}, err
	}
	return ev, nil
}

func keyValue(keys map[string]streamtypes.AttributeValue) (string, error) {
	for _, av := range keys {
		if s, ok := av.(*streamtypes.AttributeValueMemberS); ok {
			return s.Value, nil
		}
	}
	return "", fmt.Errorf("stream record has no string hash key")
}

// imageMap converts a stream image into a plain document map.
func imageMap(img map[string]streamtypes.AttributeValue) (map[string]interface{}, error) {
	if len(img) == 0 {
		return nil, nil
	}
	avs, err := attributevalue.FromDynamoDBStreamsMap(img)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := attributevalue.UnmarshalMap(avs, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func docJSON(doc map[string]interface{}) (json.RawMessage, error) {
	if doc == nil {
		return nil, nil
	}
	return json.Marshal(doc)
}

func companyID(after, before map[string]interface{}) string {
	for _, doc := range []map[string]interface{}{after, before} {
		if v, ok := doc["companyId"].(string); ok {
			return v
		}
	}
	return ""
}
