package e2e

import (
	"context"
	"net/http"

	"nutriapp/internal/apiclient"
)

func (s *APISuite) TestCreate_MinimalDishDefaults() {
	c := s.loggedIn()
	resp, err := c.Do(context.Background(), http.MethodPost, "/api/dishes", map[string]any{
		"name": "Minimal Dish", "description": "Simple test dish", "prepTime": 5, "cookTime": 10,
	})
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Dish map[string]any `json:"dish"`
	}
	s.Require().NoError(resp.Decode(&body))
	s.Contains(body.Dish, "calories")
	s.Nil(body.Dish["calories"])
	s.Equal(false, body.Dish["quickPrep"])
	s.Equal("Minimal Dish", body.Dish["name"])
	s.Equal([]any{}, body.Dish["steps"])
}

func (s *APISuite) TestCreate_FormStyleValues() {
	c := s.loggedIn()
	resp, err := c.Do(context.Background(), http.MethodPost, "/api/dishes", map[string]any{
		"name": "Tacos", "description": "Al pastor", "prepTime": "15", "cookTime": "20",
		"calories": "", "imageUrl": "", "steps": []string{"Marinar", " ", "Asar"},
	})
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Dish apiclient.Dish `json:"dish"`
	}
	s.Require().NoError(resp.Decode(&body))
	s.Equal(15, body.Dish.PrepTime)
	s.Equal(20, body.Dish.CookTime)
	s.Nil(body.Dish.Calories)
	s.Nil(body.Dish.ImageURL)
	s.Equal([]string{"Marinar", "Asar"}, body.Dish.Steps)
}

func (s *APISuite) TestCreate_MissingFields() {
	c := s.loggedIn()
	for _, body := range []map[string]any{
		{"description": "no name", "prepTime": 1, "cookTime": 1},
		{"name": "no description", "prepTime": 1, "cookTime": 1},
		{"name": "no times", "description": "x"},
		{"name": "   ", "description": "blank name", "prepTime": 1, "cookTime": 1},
	} {
		resp, err := c.Do(context.Background(), http.MethodPost, "/api/dishes", body)
		s.Require().NoError(err)
		s.Equal(http.StatusBadRequest, resp.StatusCode, body)
		s.JSONEq(`{"error":"Missing fields"}`, string(resp.Body))
	}

	list, err := c.ListDishes(context.Background())
	s.Require().NoError(err)
	s.Empty(list, "rejected creations are not stored")
}

func (s *APISuite) TestDish_RoundTrip() {
	ctx := context.Background()
	c := s.loggedIn()

	in := apiclient.DishInput{
		Name:        ptr("Pozole"),
		Description: ptr("Rojo"),
		PrepTime:    ptr(30),
		CookTime:    ptr(120),
		QuickPrep:   ptr(false),
		Calories:    ptr(450),
		ImageURL:    ptr("https://img.example/pozole.jpg"),
		Steps:       []string{"Cocer maiz", "Agregar carne"},
	}
	created, err := c.CreateDish(ctx, in)
	s.Require().NoError(err)
	s.NotZero(created.ID)

	got, err := c.GetDish(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Pozole", got.Name)
	s.Equal("Rojo", got.Description)
	s.Equal(30, got.PrepTime)
	s.Equal(120, got.CookTime)
	s.False(got.QuickPrep)
	s.Require().NotNil(got.Calories)
	s.Equal(450, *got.Calories)
	s.Require().NotNil(got.ImageURL)
	s.Equal("https://img.example/pozole.jpg", *got.ImageURL)
	s.Equal([]string{"Cocer maiz", "Agregar carne"}, got.Steps)

	updated, err := c.UpdateDish(ctx, created.ID, apiclient.DishInput{Name: ptr("Pozole verde")})
	s.Require().NoError(err)
	s.Equal("Pozole verde", updated.Name)

	after, err := c.GetDish(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Pozole verde", after.Name)
	s.Equal(got.Description, after.Description)
	s.Equal(got.PrepTime, after.PrepTime)
	s.Equal(got.CookTime, after.CookTime)
	s.Equal(got.QuickPrep, after.QuickPrep)
	s.Equal(got.Calories, after.Calories)
	s.Equal(got.ImageURL, after.ImageURL)
	s.Equal(got.Steps, after.Steps)
	s.Equal(got.OwnerID, after.OwnerID)
	s.True(got.CreatedAt.Equal(after.CreatedAt))

	s.Require().NoError(c.DeleteDish(ctx, created.ID))

	_, err = c.GetDish(ctx, created.ID)
	s.Equal(http.StatusNotFound, apiclient.StatusCode(err))
	s.Contains(err.Error(), "Platillo no encontrado")

	err = c.DeleteDish(ctx, created.ID)
	s.Equal(http.StatusNotFound, apiclient.StatusCode(err), "second delete")
}

func (s *APISuite) TestUpdate_ClearsOptionalFields() {
	ctx := context.Background()
	c := s.loggedIn()

	in := minimalDish()
	in.Calories = ptr(300)
	in.ImageURL = ptr("https://img.example/x.png")
	created, err := c.CreateDish(ctx, in)
	s.Require().NoError(err)

	updated, err := c.UpdateDish(ctx, created.ID, map[string]any{"calories": nil, "imageUrl": ""})
	s.Require().NoError(err)
	s.Nil(updated.Calories)
	s.Nil(updated.ImageURL)
	s.Equal("Minimal Dish", updated.Name)

	resp, err := c.Do(ctx, http.MethodPut, "/api/dishes/"+uintString(created.ID), map[string]any{"name": ""})
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APISuite) TestList_OnlyOwnDishesNewestFirst() {
	ctx := context.Background()
	a := s.loggedIn()
	b := s.newUser("lister@nutriapp.com")

	first, err := a.CreateDish(ctx, minimalDish())
	s.Require().NoError(err)
	second := minimalDish()
	second.Name = ptr("Second")
	created, err := a.CreateDish(ctx, second)
	s.Require().NoError(err)
	_, err = b.CreateDish(ctx, minimalDish())
	s.Require().NoError(err)

	list, err := a.ListDishes(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(created.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)

	// Writes are visible through the list right away.
	s.Require().NoError(a.DeleteDish(ctx, first.ID))
	list, err = a.ListDishes(ctx)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *APISuite) TestOwnership_OtherUserGets404() {
	ctx := context.Background()
	owner := s.loggedIn()
	intruder := s.newUser("intruder@nutriapp.com")

	dish, err := owner.CreateDish(ctx, minimalDish())
	s.Require().NoError(err)

	_, err = intruder.GetDish(ctx, dish.ID)
	s.Equal(http.StatusNotFound, apiclient.StatusCode(err))

	_, err = intruder.UpdateDish(ctx, dish.ID, apiclient.DishInput{Name: ptr("Hijacked")})
	s.Equal(http.StatusNotFound, apiclient.StatusCode(err))

	err = intruder.DeleteDish(ctx, dish.ID)
	s.Equal(http.StatusNotFound, apiclient.StatusCode(err))

	got, err := owner.GetDish(ctx, dish.ID)
	s.Require().NoError(err)
	s.Equal("Minimal Dish", got.Name, "untouched by the intruder")
}

func (s *APISuite) TestDishRoutes_RequireSession() {
	c := s.client()
	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/dishes", nil},
		{http.MethodPost, "/api/dishes", minimalDish()},
		{http.MethodGet, "/api/dishes/1", nil},
		{http.MethodPut, "/api/dishes/1", map[string]string{"name": "x"}},
		{http.MethodDelete, "/api/dishes/1", nil},
	} {
		resp, err := c.Do(context.Background(), tc.method, tc.path, tc.body)
		s.Require().NoError(err)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, tc.method+" "+tc.path)
		s.JSONEq(`{"error":"No autorizado"}`, string(resp.Body))
	}
}

func (s *APISuite) TestMalformedID_Is404() {
	c := s.loggedIn()
	for _, id := range []string{"abc", "0", "-3", "1.5"} {
		resp, err := c.Do(context.Background(), http.MethodGet, "/api/dishes/"+id, nil)
		s.Require().NoError(err)
		s.Equal(http.StatusNotFound, resp.StatusCode, id)
	}
}
