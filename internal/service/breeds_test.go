package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doggofresh/backend/internal/service"
)

func TestSearchBreeds(t *testing.T) {
	assert.Equal(t, service.Breeds, service.SearchBreeds(""), "empty query returns every breed")
	assert.Equal(t, service.Breeds, service.SearchBreeds("   "))

	assert.Equal(t, []string{"Labrador"}, service.SearchBreeds("labra"))
	assert.Contains(t, service.SearchBreeds("terrier"), "Yorkshire Terrier")
	assert.Contains(t, service.SearchBreeds("TERRIER"), "Bull Terrier")
	assert.Empty(t, service.SearchBreeds("gato"))
}
