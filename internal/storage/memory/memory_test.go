package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/spendlog/spendlog-be/internal/models"
	"github.com/spendlog/spendlog-be/internal/storage"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.CreateUser(ctx, models.User{Email: "a@example.com", PasswordHash: "hash-one"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = s.CreateUser(ctx, models.User{Email: "a@example.com", PasswordHash: "hash-two"})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("got %v, want ErrAlreadyExists", err)
	}

	stored, err := s.FindByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash != first.PasswordHash {
		t.Fatal("stored hash changed after failed duplicate registration")
	}
}

func TestFindByEmailUnknown(t *testing.T) {
	s := New()
	if _, err := s.FindByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestExpenseCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateExpense(ctx, models.Expense{Amount: 10, Date: models.NewDate(2024, 1, 15), Note: "lunch", Category: "food"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := s.GetExpense(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Note != "lunch" || got.Amount != 10 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Full overwrite, including clearing the category.
	updated, err := s.UpdateExpense(ctx, created.ID, models.Expense{Amount: 12, Date: models.NewDate(2024, 2, 1), Note: "dinner", Category: ""})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("id changed on update: %d != %d", updated.ID, created.ID)
	}
	if updated.Category != "" || updated.Note != "dinner" || updated.Amount != 12 {
		t.Fatalf("update did not overwrite all fields: %+v", updated)
	}
}

func TestUpdateAbsentIDLeavesStoreUnchanged(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateExpense(ctx, models.Expense{Amount: 10, Date: models.NewDate(2024, 1, 15), Note: "lunch"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = s.UpdateExpense(ctx, created.ID+100, models.Expense{Amount: 99, Date: models.NewDate(2024, 3, 3), Note: "ghost"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	all, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].Amount != 10 {
		t.Fatalf("store changed after failed update: %+v", all)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateExpense(ctx, models.Expense{Amount: 10, Date: models.NewDate(2024, 1, 15), Note: "lunch"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := s.DeleteExpense(ctx, created.ID)
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if !deleted {
		t.Fatal("first delete should report a removed row")
	}

	deleted, err = s.DeleteExpense(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if deleted {
		t.Fatal("second delete should report nothing removed")
	}
	if _, err := s.GetExpense(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestFilterByDateRange(t *testing.T) {
	s := New()
	ctx := context.Background()

	dates := []models.Date{
		models.NewDate(2023, 12, 31),
		models.NewDate(2024, 1, 1),
		models.NewDate(2024, 1, 31),
		models.NewDate(2024, 2, 1),
	}
	for i, d := range dates {
		if _, err := s.CreateExpense(ctx, models.Expense{Amount: float64(i + 1), Date: d, Note: "n"}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	got, err := s.FilterByDateRange(ctx, models.NewDate(2024, 1, 1), models.NewDate(2024, 1, 31))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches (inclusive bounds), got %d", len(got))
	}

	// Inverted range yields an empty sequence, not an error.
	inverted, err := s.FilterByDateRange(ctx, models.NewDate(2024, 1, 31), models.NewDate(2024, 1, 1))
	if err != nil {
		t.Fatalf("inverted filter: %v", err)
	}
	if len(inverted) != 0 {
		t.Fatalf("expected empty result for inverted range, got %d", len(inverted))
	}
}

func TestFilterByCategoryExactMatch(t *testing.T) {
	s := New()
	ctx := context.Background()

	seed := []models.Expense{
		{Amount: 10, Date: models.NewDate(2024, 1, 1), Note: "a", Category: "food"},
		{Amount: 20, Date: models.NewDate(2024, 1, 2), Note: "b", Category: "Food"},
		{Amount: 30, Date: models.NewDate(2024, 1, 3), Note: "c", Category: ""},
	}
	for _, e := range seed {
		if _, err := s.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	food, err := s.FilterByCategory(ctx, "food")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(food) != 1 || food[0].Amount != 10 {
		t.Fatalf("case-sensitive exact match expected, got %+v", food)
	}

	uncategorized, err := s.FilterByCategory(ctx, "")
	if err != nil {
		t.Fatalf("filter empty: %v", err)
	}
	if len(uncategorized) != 1 || uncategorized[0].Amount != 30 {
		t.Fatalf("empty category filter mismatch: %+v", uncategorized)
	}
}

func TestTotalSpentEmptyStoreIsZero(t *testing.T) {
	s := New()
	total, err := s.TotalSpent(context.Background())
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
}

func TestTotalByCategoryGroupsEmptyCategory(t *testing.T) {
	s := New()
	ctx := context.Background()

	seed := []models.Expense{
		{Amount: 10, Date: models.NewDate(2024, 1, 1), Note: "a", Category: "food"},
		{Amount: 5, Date: models.NewDate(2024, 1, 2), Note: "b", Category: "food"},
		{Amount: 7, Date: models.NewDate(2024, 1, 3), Note: "c", Category: ""},
	}
	for _, e := range seed {
		if _, err := s.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	totals, err := s.TotalByCategory(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 groups, got %+v", totals)
	}
	// Sorted by category: "" first, then "food".
	if totals[0].Category != "" || totals[0].Total != 7 {
		t.Fatalf("uncategorized group mismatch: %+v", totals[0])
	}
	if totals[1].Category != "food" || totals[1].Total != 15 {
		t.Fatalf("food group mismatch: %+v", totals[1])
	}
}

func TestTotalByMonthAggregatesAcrossYears(t *testing.T) {
	s := New()
	ctx := context.Background()

	seed := []models.Expense{
		{Amount: 10, Date: models.NewDate(2023, 1, 15), Note: "a", Category: "food"},
		{Amount: 5, Date: models.NewDate(2024, 1, 20), Note: "b", Category: "food"},
		{Amount: 3, Date: models.NewDate(2024, 3, 2), Note: "c", Category: "travel"},
	}
	for _, e := range seed {
		if _, err := s.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	totals, err := s.TotalByMonth(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 rows, got %+v", totals)
	}
	if totals[0].Month != 1 || totals[0].Total != 15 {
		t.Fatalf("january row should merge both years: %+v", totals[0])
	}
	if totals[1].Month != 3 || totals[1].Total != 3 {
		t.Fatalf("march row mismatch: %+v", totals[1])
	}
}
