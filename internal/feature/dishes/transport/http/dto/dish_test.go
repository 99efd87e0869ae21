package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableInt_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
		wantValue int
		wantErr   bool
	}{
		{name: "absent", body: `{}`},
		{name: "number", body: `{"calories": 350}`, wantSet: true, wantValid: true, wantValue: 350},
		{name: "zero", body: `{"calories": 0}`, wantSet: true, wantValid: true, wantValue: 0},
		{name: "negative", body: `{"calories": -4}`, wantSet: true, wantValid: true, wantValue: -4},
		{name: "integral float", body: `{"calories": 10.0}`, wantSet: true, wantValid: true, wantValue: 10},
		{name: "numeric string", body: `{"calories": " 42 "}`, wantSet: true, wantValid: true, wantValue: 42},
		{name: "empty string", body: `{"calories": ""}`, wantSet: true},
		{name: "null", body: `{"calories": null}`, wantSet: true},
		{name: "fraction", body: `{"calories": 1.5}`, wantErr: true},
		{name: "word", body: `{"calories": "mucho"}`, wantErr: true},
		{name: "bool", body: `{"calories": true}`, wantErr: true},
		{name: "too large", body: `{"calories": 1e12}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req DishReq
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, req.Calories.Set)
			assert.Equal(t, tt.wantValid, req.Calories.Valid)
			assert.Equal(t, tt.wantValue, req.Calories.Value)
			if tt.wantValid {
				require.NotNil(t, req.Calories.Ptr())
				assert.Equal(t, tt.wantValue, *req.Calories.Ptr())
			} else {
				assert.Nil(t, req.Calories.Ptr())
			}
		})
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var req DishReq
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Tacos","imageUrl":null,"steps":["a","b"]}`), &req))

	assert.True(t, req.Name.Set)
	assert.Equal(t, "Tacos", *req.Name.Ptr())
	assert.True(t, req.ImageURL.Set)
	assert.True(t, req.ImageURL.Null)
	assert.Nil(t, req.ImageURL.Ptr())
	assert.False(t, req.Description.Set)
	assert.Nil(t, req.Description.Ptr())
	assert.Equal(t, []string{"a", "b"}, req.Steps.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"name": 12}`), &DishReq{}))
	assert.Error(t, json.Unmarshal([]byte(`{"steps": [1, 2]}`), &DishReq{}))
}

func TestDishReq_ToNewDish(t *testing.T) {
	t.Parallel()

	var req DishReq
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Minimal Dish","description":"Simple test dish","prepTime":5,"cookTime":"10","calories":""}`), &req))

	in := req.ToNewDish()
	require.NotNil(t, in.Name)
	assert.Equal(t, "Minimal Dish", *in.Name)
	require.NotNil(t, in.PrepTime)
	assert.Equal(t, 5, *in.PrepTime)
	require.NotNil(t, in.CookTime)
	assert.Equal(t, 10, *in.CookTime)
	assert.Nil(t, in.QuickPrep)
	assert.Nil(t, in.Calories)
	assert.Nil(t, in.ImageURL)
	assert.Nil(t, in.Steps)
	assert.NoError(t, in.Validate())
}

func TestDishReq_ToPatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, req DishReq)
	}{
		{
			name: "only name",
			body: `{"name":"Nuevo"}`,
			check: func(t *testing.T, req DishReq) {
				p := req.ToPatch()
				require.NotNil(t, p.Name)
				assert.Equal(t, "Nuevo", *p.Name)
				assert.Nil(t, p.Description)
				assert.Nil(t, p.PrepTime)
				assert.Nil(t, p.QuickPrep)
				assert.False(t, p.Calories.Set)
				assert.False(t, p.ImageURL.Set)
				assert.False(t, p.Steps.Set)
			},
		},
		{
			name: "clearing optional fields",
			body: `{"calories":null,"imageUrl":"","steps":null,"quickPrep":null}`,
			check: func(t *testing.T, req DishReq) {
				p := req.ToPatch()
				assert.True(t, p.Calories.Set)
				assert.Nil(t, p.Calories.Value)
				assert.True(t, p.ImageURL.Set)
				assert.True(t, p.Steps.Set)
				assert.Nil(t, p.Steps.Value)
				require.NotNil(t, p.QuickPrep)
				assert.False(t, *p.QuickPrep)
			},
		},
		{
			name:    "null name is rejected",
			body:    `{"name":null}`,
			wantErr: true,
		},
		{
			name:    "blank prepTime is rejected",
			body:    `{"prepTime":""}`,
			wantErr: true,
		},
		{
			name:    "null cookTime is rejected",
			body:    `{"cookTime":null}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req DishReq
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			if tt.wantErr {
				assert.Error(t, req.ToPatch().Validate())
				return
			}
			assert.NoError(t, req.ToPatch().Validate())
			tt.check(t, req)
		})
	}
}
