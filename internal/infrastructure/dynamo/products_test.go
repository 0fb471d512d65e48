package dynamo

import (
	"testing"

	"github.com/go-push-reactor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactDeleteItems_BuildsOneDeletePerProduct(t *testing.T) {
	products := []domain.Product{
		{ProductID: "p1"},
		{ProductID: "p2"},
		{ProductID: "p3"},
	}

	items, err := transactDeleteItems("products", products)
	require.NoError(t, err)
	require.Len(t, items, 3)

	for i, item := range items {
		require.NotNil(t, item.Delete)
		assert.Equal(t, "products", *item.Delete.TableName)
		assert.Equal(t, strKey("productId", products[i].ProductID), item.Delete.Key)
	}
}

func TestTransactDeleteItems_RejectsOversizedBatch(t *testing.T) {
	products := make([]domain.Product, maxTransactItems+1)
	for i := range products {
		products[i] = domain.Product{ProductID: "p"}
	}

	_, err := transactDeleteItems("products", products)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atomically")
}
