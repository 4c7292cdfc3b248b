package participant

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	req := require.New(t)
	now := time.UnixMilli(1_700_000_000_000)

	p := New("a1", now)

	req.Equal("a1", p.ConnectionID)
	req.Equal(DefaultNickname, p.Nickname)
	req.False(p.HasLocation())
	req.Equal(int64(1_700_000_000_000), p.Timestamp())
}

func TestView_NullCoordinatesWithoutLocation(t *testing.T) {
	p := New("a1", time.UnixMilli(42))

	raw, err := json.Marshal(p.View())

	require.NoError(t, err)
	require.JSONEq(t, `{"userId":"a1","nickname":"Anonymous","lat":null,"lng":null,"accuracy":null,"timestamp":42}`, string(raw))
}

func TestView_CopiesLocation(t *testing.T) {
	req := require.New(t)
	p := New("b2", time.UnixMilli(7))
	p.Nickname = "Bob"
	p.Location = &Location{Lat: 10, Lng: 20, Accuracy: 5}

	v := p.View()
	p.Location.Lat = 99

	req.Equal(10.0, *v.Lat)
	req.Equal(20.0, *v.Lng)
	req.Equal(5.0, *v.Accuracy)
	req.Equal("Bob", v.Nickname)
}

func TestSummary(t *testing.T) {
	p := New("a1", time.UnixMilli(1000))
	require.Equal(t, Summary{Nickname: "Anonymous", HasLocation: false, LastUpdate: 1000}, p.Summary())

	// a location at 0,0 is still a location
	p.Location = &Location{}
	require.True(t, p.Summary().HasLocation)
}

func TestClone_DetachesLocation(t *testing.T) {
	p := New("a1", time.UnixMilli(1))
	p.Location = &Location{Lat: 1, Lng: 2, Accuracy: 3}

	c := p.Clone()
	c.Location.Lat = 50

	require.Equal(t, 1.0, p.Location.Lat)
}
