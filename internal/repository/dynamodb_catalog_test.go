package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"fitzone-api/internal/domain"
)

func makeDocItem(t *testing.T, pk, sk string, v any) map[string]types.AttributeValue {
	t.Helper()
	item, err := docItem(pk, sk, v, nil)
	require.NoError(t, err)
	return item
}

func TestListFAQs_FollowsPagination(t *testing.T) {
	first := domain.KnowledgeEntry{Question: "Parking?", Answer: "Free."}
	second := domain.KnowledgeEntry{Question: "Towels?", Answer: "Yes."}
	db := &fakeDynamo{
		queryOuts: []*dynamodb.QueryOutput{
			{
				Items:            []map[string]types.AttributeValue{makeDocItem(t, pkFAQ, "FAQ#1", first)},
				LastEvaluatedKey: map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: pkFAQ}},
			},
			{Items: []map[string]types.AttributeValue{makeDocItem(t, pkFAQ, "FAQ#2", second)}},
		},
	}
	c := mustNewClient(t, db)

	faqs, err := c.ListFAQs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.KnowledgeEntry{first, second}, faqs)
	require.Len(t, db.queryInputs, 2)
	require.Nil(t, db.queryInputs[0].ExclusiveStartKey)
	require.NotNil(t, db.queryInputs[1].ExclusiveStartKey)
	require.True(t, *db.queryInputs[0].ScanIndexForward)
}

func TestListFAQs_QueryError(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{queryErr: errors.New("throttled")})
	_, err := c.ListFAQs(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "ListFAQs")
}

func TestGetFAQ_FiltersOnQuestion(t *testing.T) {
	faq := domain.KnowledgeEntry{Question: "Parking?", Answer: "Free."}
	db := &fakeDynamo{queryOuts: []*dynamodb.QueryOutput{{Items: []map[string]types.AttributeValue{makeDocItem(t, pkFAQ, "FAQ#1", faq)}}}}
	c := mustNewClient(t, db)

	got, err := c.GetFAQ(context.Background(), "Parking?")
	require.NoError(t, err)
	require.Equal(t, faq, got)

	in := db.lastQuery()
	require.Equal(t, "#f0 = :f0", *in.FilterExpression)
	require.Equal(t, "question", in.ExpressionAttributeNames["#f0"])
}

func TestGetFAQ_NotFound(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{})
	_, err := c.GetFAQ(context.Background(), "Parking?")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddFAQ_WritesInsertionOrderedKey(t *testing.T) {
	orig := newFAQID
	newFAQID = func() string { return "id-1" }
	t.Cleanup(func() { newFAQID = orig })

	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	err := c.AddFAQ(context.Background(), domain.KnowledgeEntry{Question: "Parking?", Answer: "Free."})
	require.NoError(t, err)
	item := db.lastPutInput.Item
	require.Equal(t, pkFAQ, sAttr(t, item, "PK"))
	require.Equal(t, "FAQ#2026-02-25T10:00:00.000000000Z#id-1", sAttr(t, item, "SK"))
	require.Equal(t, "Parking?", sAttr(t, item, "question"))

	var stored domain.KnowledgeEntry
	require.NoError(t, json.Unmarshal([]byte(sAttr(t, item, "data")), &stored))
	require.Equal(t, "Free.", stored.Answer)
}

func TestAddFAQ_SameInstantWritesDistinctKeys(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	faq := domain.KnowledgeEntry{Question: "Parking?", Answer: "Free."}

	require.NoError(t, c.AddFAQ(context.Background(), faq))
	first := sAttr(t, db.lastPutInput.Item, "SK")
	require.NoError(t, c.AddFAQ(context.Background(), faq))
	second := sAttr(t, db.lastPutInput.Item, "SK")

	require.NotEqual(t, first, second)
	require.True(t, strings.HasPrefix(first, "FAQ#2026-02-25T10:00:00.000000000Z#"))
	require.True(t, strings.HasPrefix(second, "FAQ#2026-02-25T10:00:00.000000000Z#"))
}

func TestGetGymLocation(t *testing.T) {
	gym := domain.GymLocation{Name: "FitZone Harbor", City: "Boston", Amenities: []string{"Pool"}}
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: makeDocItem(t, pkGym, "GYM#FitZone Harbor", gym)}}
	c := mustNewClient(t, db)

	got, err := c.GetGymLocation(context.Background(), "FitZone Harbor")
	require.NoError(t, err)
	require.Equal(t, gym, got)
	require.Equal(t, "GYM#FitZone Harbor", sAttr(t, db.lastGetInput.Key, "SK"))
}

func TestGetCatalogItem_NotFound(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{}})
	_, err := c.GetEquipment(context.Background(), "Treadmill")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetWorkout(context.Background(), "Nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetCatalogItem_MalformedDocument(t *testing.T) {
	item := map[string]types.AttributeValue{
		"PK":   &types.AttributeValueMemberS{Value: pkWorkout},
		"SK":   &types.AttributeValueMemberS{Value: "WORKOUT#x"},
		"data": &types.AttributeValueMemberS{Value: "{not json"},
	}
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}})
	_, err := c.GetWorkout(context.Background(), "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestAddCatalogItems_KeyByName(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	ctx := context.Background()

	require.NoError(t, c.AddEquipment(ctx, domain.Equipment{Name: "Rower", Price: 900}))
	require.Equal(t, "EQUIPMENT#Rower", sAttr(t, db.lastPutInput.Item, "SK"))

	require.NoError(t, c.AddWorkout(ctx, domain.Workout{Name: "Mobility Flow"}))
	require.Equal(t, pkWorkout, sAttr(t, db.lastPutInput.Item, "PK"))

	require.NoError(t, c.AddGymLocation(ctx, domain.GymLocation{Name: "FitZone Harbor"}))
	require.Equal(t, "GYM#FitZone Harbor", sAttr(t, db.lastPutInput.Item, "SK"))

	c = mustNewClient(t, &fakeDynamo{putErr: errors.New("throttled")})
	err := c.AddWorkout(ctx, domain.Workout{Name: "Mobility Flow"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "AddWorkout")
}

func TestListWorkouts(t *testing.T) {
	w := domain.Workout{Name: "Mobility Flow", Steps: []string{"Cat-cow", "Hip circles"}}
	db := &fakeDynamo{queryOuts: []*dynamodb.QueryOutput{{Items: []map[string]types.AttributeValue{makeDocItem(t, pkWorkout, "WORKOUT#Mobility Flow", w)}}}}
	c := mustNewClient(t, db)

	got, err := c.ListWorkouts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Workout{w}, got)
	require.Nil(t, db.lastQuery().FilterExpression)
}

func TestMealPlans(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	ctx := context.Background()
	profile := domain.UserProfile{Goal: domain.GoalMaintenance, WeightKg: 70, HeightCm: 170, ActivityLevel: domain.ActivityModerate, DietaryPreference: domain.DietVegan}

	require.NoError(t, c.SubmitProfile(ctx, profile.Key(), profile))
	require.Equal(t, "PLAN#"+profile.Key(), sAttr(t, db.lastPutInput.Item, "PK"))
	require.Equal(t, skProfile, sAttr(t, db.lastPutInput.Item, "SK"))
	require.Equal(t, "2026-02-25T10:00:00Z", sAttr(t, db.lastPutInput.Item, "submittedAt"))

	plan := domain.NewDailyMealPlan(domain.Meal{Name: "a", Calories: 1}, domain.Meal{Name: "b", Calories: 2}, domain.Meal{Name: "c", Calories: 3})
	require.NoError(t, c.PutMealPlan(ctx, "k", plan))
	require.Equal(t, skPlan, sAttr(t, db.lastPutInput.Item, "SK"))

	db.getOut = &dynamodb.GetItemOutput{Item: db.lastPutInput.Item}
	got, err := c.GetMealPlan(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, plan, got)

	db.getOut = &dynamodb.GetItemOutput{}
	_, err = c.GetMealPlan(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
