package stream

import (
	"encoding/json"
	"testing"

	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/go-push-reactor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userImage(isActive bool, token string) map[string]streamtypes.AttributeValue {
	img := map[string]streamtypes.AttributeValue{
		"userId":   &streamtypes.AttributeValueMemberS{Value: "u1"},
		"isActive": &streamtypes.AttributeValueMemberBOOL{Value: isActive},
	}
	if token != "" {
		img["fcmToken"] = &streamtypes.AttributeValueMemberS{Value: token}
	}
	return img
}

func TestRecordEvent_ModifyProducesBeforeAndAfter(t *testing.T) {
	rec := streamtypes.Record{
		EventName: streamtypes.OperationTypeModify,
		Dynamodb: &streamtypes.StreamRecord{
			Keys:     map[string]streamtypes.AttributeValue{"userId": &streamtypes.AttributeValueMemberS{Value: "u1"}},
			OldImage: userImage(false, "tok"),
			NewImage: userImage(true, "tok"),
		},
	}

	ev, err := recordEvent(domain.SourceUsers, rec)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceUsers, ev.Source)
	assert.Equal(t, domain.EventUpdate, ev.Kind)
	assert.Equal(t, "u1", ev.ID)

	before, err := domain.DecodeUserSnapshot(ev.Before)
	require.NoError(t, err)
	after, err := domain.DecodeUserSnapshot(ev.After)
	require.NoError(t, err)
	assert.False(t, before.IsActive)
	assert.True(t, after.IsActive)
	require.NotNil(t, after.FCMToken)
	assert.Equal(t, "tok", *after.FCMToken)
}

func TestRecordEvent_InsertHasNoBefore(t *testing.T) {
	rec := streamtypes.Record{
		EventName: streamtypes.OperationTypeInsert,
		Dynamodb: &streamtypes.StreamRecord{
			Keys: map[string]streamtypes.AttributeValue{"orderId": &streamtypes.AttributeValueMemberS{Value: "o1"}},
			NewImage: map[string]streamtypes.AttributeValue{
				"orderId":      &streamtypes.AttributeValueMemberS{Value: "o1"},
				"companyId":    &streamtypes.AttributeValueMemberS{Value: "c1"},
				"employeeName": &streamtypes.AttributeValueMemberS{Value: "Grace"},
				"status":       &streamtypes.AttributeValueMemberS{Value: "pending"},
			},
		},
	}

	ev, err := recordEvent(domain.SourceOrders, rec)
	require.NoError(t, err)

	assert.Equal(t, domain.EventCreate, ev.Kind)
	assert.Equal(t, "o1", ev.ID)
	assert.Equal(t, "c1", ev.CompanyID)
	assert.Nil(t, ev.Before)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(ev.After, &doc))
	assert.Equal(t, "Grace", doc["employeeName"])
}

func TestRecordEvent_RemoveTakesCompanyFromOldImage(t *testing.T) {
	rec := streamtypes.Record{
		EventName: streamtypes.OperationTypeRemove,
		Dynamodb: &streamtypes.StreamRecord{
			Keys: map[string]streamtypes.AttributeValue{"supplierId": &streamtypes.AttributeValueMemberS{Value: "s1"}},
			OldImage: map[string]streamtypes.AttributeValue{
				"supplierId": &streamtypes.AttributeValueMemberS{Value: "s1"},
				"companyId":  &streamtypes.AttributeValueMemberS{Value: "c1"},
			},
		},
	}

	ev, err := recordEvent(domain.SourceSuppliers, rec)
	require.NoError(t, err)

	assert.Equal(t, domain.EventDelete, ev.Kind)
	assert.Equal(t, "s1", ev.ID)
	assert.Equal(t, "c1", ev.CompanyID)
	assert.Nil(t, ev.After)
}

func TestRecordEvent_MissingPayloadIsRejected(t *testing.T) {
	_, err := recordEvent(domain.SourceUsers, streamtypes.Record{EventName: streamtypes.OperationTypeModify})
	require.Error(t, err)
}
