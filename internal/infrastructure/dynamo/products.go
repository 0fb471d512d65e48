package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-push-reactor/internal/domain"
)

// maxTransactItems is DynamoDB's hard ceiling for a single TransactWriteItems
// call. A dependent set larger than this cannot be deleted atomically, so it
// fails loudly instead of committing a partial batch.
const maxTransactItems = 100

// ProductRepo provides typed DynamoDB operations for the products table.
type ProductRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewProductRepo(client *dynamodb.Client, tableName string) *ProductRepo {
	return &ProductRepo{client: client, tableName: tableName}
}

func (r *ProductRepo) Put(ctx context.Context, p *domain.Product) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListBySupplier returns every product of the company that references the
// given supplier, following pagination until the index is exhausted.
func (r *ProductRepo) ListBySupplier(ctx context.Context, companyID, supplierID string) ([]domain.Product, error) {
	var products []domain.Product
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("companyId-supplierId-index"),
			KeyConditionExpression: aws.String("companyId = :c AND supplierId = :s"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":c": &types.AttributeValueMemberS{Value: companyID},
				":s": &types.AttributeValueMemberS{Value: supplierID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query products by supplier: %w", err)
		}
		var page []domain.Product
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		products = append(products, page...)
		if out.LastEvaluatedKey == nil {
			return products, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// DeleteAll removes the given products in a single atomic transaction.
// Either every product is deleted or none is — a partial batch would leave
// orphaned references behind silently.
func (r *ProductRepo) DeleteAll(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	items, err := transactDeleteItems(r.tableName, products)
	if err != nil {
		return err
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return fmt.Errorf("transact delete %d products: %w", len(products), err)
	}
	return nil
}

func transactDeleteItems(tableName string, products []domain.Product) ([]types.TransactWriteItem, error) {
	if len(products) > maxTransactItems {
		return nil, fmt.Errorf("cannot delete %d products atomically (transaction limit %d)", len(products), maxTransactItems)
	}
	items := make([]types.TransactWriteItem, 0, len(products))
	for _, p := range products {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(tableName),
				Key:       strKey("productId", p.ProductID),
			},
		})
	}
	return items, nil
}
