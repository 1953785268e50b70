package geocode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_PrimaryMatch(t *testing.T) {
	p := &stubProvider{name: "nominatim", results: map[string]*Result{
		"72 Lê Thánh Tôn, Quận 1, TP.HCM": {Latitude: 10.7769, Longitude: 106.7009, Matched: true},
	}}
	c := NewCascadeClient([]Provider{p}, time.Second, fastRetry())

	res, err := Resolve(context.Background(), c, "72 Lê Thánh Tôn, Quận 1, TP.HCM")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.Fallback)
	assert.Equal(t, "72 Lê Thánh Tôn, Quận 1, TP.HCM", res.Query)
	assert.Len(t, p.calls, 1, "no fallback after a match")
}

func TestResolve_FallbackToNormalized(t *testing.T) {
	p := &stubProvider{name: "nominatim", results: map[string]*Result{
		"123 ABC, XYZ, 1, Ho Chi Minh City": {Latitude: 10.77, Longitude: 106.70, Matched: true},
	}}
	c := NewCascadeClient([]Provider{p}, time.Second, fastRetry())

	res, err := Resolve(context.Background(), c, "123 Duong ABC, Phuong XYZ, Quan 1, TP.HCM")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.Fallback)
	assert.Equal(t, "123 ABC, XYZ, 1, Ho Chi Minh City", res.Query)
	assert.Equal(t, []string{
		"123 Duong ABC, Phuong XYZ, Quan 1, TP.HCM",
		"123 ABC, XYZ, 1, Ho Chi Minh City",
	}, p.calls)
}

func TestResolve_BothFail(t *testing.T) {
	p := &stubProvider{name: "nominatim"}
	c := NewCascadeClient([]Provider{p}, time.Second, fastRetry())

	res, err := Resolve(context.Background(), c, "123 Duong Nowhere, Quan 99, TP.HCM")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.False(t, res.Fallback)
	assert.Len(t, p.calls, 2)
}

func TestResolve_SkipsIdenticalFallback(t *testing.T) {
	p := &stubProvider{name: "nominatim"}
	c := NewCascadeClient([]Provider{p}, time.Second, fastRetry())

	res, err := Resolve(context.Background(), c, "10 Nguyen Hue, Ho Chi Minh City")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Len(t, p.calls, 1)
}

func TestResolve_PrimaryError(t *testing.T) {
	p := &stubProvider{name: "nominatim", err: errors.New("connection refused by policy")}
	c := NewCascadeClient([]Provider{p}, time.Second, fastRetry())

	_, err := Resolve(context.Background(), c, "123 Duong ABC, Quan 1, TP.HCM")
	require.Error(t, err)
	assert.Len(t, p.calls, 1, "processing errors do not trigger the fallback")
}
