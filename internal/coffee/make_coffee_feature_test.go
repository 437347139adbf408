package coffee

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
)

type purchaseTestContext struct {
	maker    *Maker
	purchase Purchase
}

func (c *purchaseTestContext) reset() {
	c.maker = nil
	c.purchase = Purchase{}
}

func (c *purchaseTestContext) aFreshCoffeeMachine() error {
	c.maker = NewMaker()
	return nil
}

func (c *purchaseTestContext) aRecipePricedUsingUnits(name string, price, units int) error {
	u := strconv.Itoa(units)
	r, err := BuildRecipe(name, strconv.Itoa(price), u, u, u, u)
	if err != nil {
		return err
	}
	if !c.maker.AddRecipe(r) {
		return fmt.Errorf("recipe %q was not added", name)
	}
	return nil
}

func (c *purchaseTestContext) theMachineIsRestockedWith(units int) error {
	u := strconv.Itoa(units)
	return c.maker.AddInventory(u, u, u, u)
}

func (c *purchaseTestContext) iPayForTheRecipeInSlot(paid, slot int) error {
	c.purchase = c.maker.Purchase(slot, paid)
	return nil
}

func (c *purchaseTestContext) iReceiveInChange(change int) error {
	if c.purchase.Change != change {
		return fmt.Errorf("change = %d, want %d", c.purchase.Change, change)
	}
	return nil
}

func (c *purchaseTestContext) theOutcomeIs(outcome string) error {
	if got := c.purchase.Outcome.String(); got != outcome {
		return fmt.Errorf("outcome = %q, want %q", got, outcome)
	}
	return nil
}

func (c *purchaseTestContext) theMachineHoldsUnitsOfEveryIngredient(units int) error {
	for _, ing := range Ingredients {
		if got := c.maker.Inventory().Units(ing); got != units {
			return fmt.Errorf("%s = %d, want %d", ing, got, units)
		}
	}
	return nil
}

func InitializePurchaseScenario(ctx *godog.ScenarioContext) {
	tc := &purchaseTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^a fresh coffee machine$`, tc.aFreshCoffeeMachine)
	ctx.Step(`^a recipe "([^"]*)" priced (\d+) using (\d+) units of every ingredient$`, tc.aRecipePricedUsingUnits)
	ctx.Step(`^the machine is restocked with (\d+) units of every ingredient$`, tc.theMachineIsRestockedWith)

	ctx.Step(`^I pay (\d+) for the recipe in slot (\d+)$`, tc.iPayForTheRecipeInSlot)

	ctx.Step(`^I receive (\d+) in change$`, tc.iReceiveInChange)
	ctx.Step(`^the outcome is "([^"]*)"$`, tc.theOutcomeIs)
	ctx.Step(`^the machine holds (\d+) units of every ingredient$`, tc.theMachineHoldsUnitsOfEveryIngredient)
}

func TestPurchaseFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializePurchaseScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/make_coffee.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
