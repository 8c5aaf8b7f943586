package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleStatistics = "3:7,4,1,10\n6:4,2,2,#f\n"

func TestDecodeStatistics(t *testing.T) {
	st, err := DecodeStatistics(exampleStatistics)
	require.NoError(t, err)
	require.Len(t, st, 2)

	assert.Equal(t, 3, st[0].Size)
	assertStatSetEqual(t, StatSet{Plays: 7, Wins: 4, Perfects: 1, AverageTime: FloatPtr(10)}, st[0].Stats)
	assert.Equal(t, 6, st[1].Size)
	assertStatSetEqual(t, StatSet{Plays: 4, Wins: 2, Perfects: 2}, st[1].Stats)
}

func TestStatisticsTextRoundTrip(t *testing.T) {
	texts := []string{
		"",
		exampleStatistics,
		"1:1,1,1,0\n2:10,3,0,12.5\n15:2,0,0,#f\n",
	}
	for _, text := range texts {
		st, err := DecodeStatistics(text)
		require.NoError(t, err)
		assert.Equal(t, text, EncodeStatistics(st))
	}
}

func TestEncodeStatisticsSortsBySize(t *testing.T) {
	st := Statistics{
		{Size: 6, Stats: StatSet{Plays: 4, Wins: 2, Perfects: 2}},
		{Size: 3, Stats: StatSet{Plays: 7, Wins: 4, Perfects: 1, AverageTime: FloatPtr(10)}},
	}
	assert.Equal(t, exampleStatistics, EncodeStatistics(st))

	decoded, err := DecodeStatistics(EncodeStatistics(st))
	require.NoError(t, err)
	assert.Equal(t, st.Sorted(), decoded)
}

func TestDecodeStatisticsSkipsBlankLines(t *testing.T) {
	st, err := DecodeStatistics("\n3:7,4,1,10\n\n")
	require.NoError(t, err)
	assert.Len(t, st, 1)
}

func TestDecodeStatisticsRejectsMalformedLines(t *testing.T) {
	bad := []string{
		"3:7,4,1",
		"3:7,4,1,10,2",
		"3;7,4,1,10",
		"x:7,4,1,10",
		"0:7,4,1,10",
		"3:7,four,1,10",
		"3:-1,0,0,#f",
		"3:7,4,1,soon",
		"3:7,4,1,NaN",
		"3:7:4,1,10",
		"3:+7,4,1,10",
		"3:07,4,1,10",
		"03:7,4,1,10",
		"3:7,4,1,10.0",
		"3:7,4,1,1e1",
		"3:7,4,1,+10",
	}
	for _, line := range bad {
		t.Run(line, func(t *testing.T) {
			_, err := DecodeStatistics(exampleStatistics + line + "\n")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedStatisticsLine)
			assert.Contains(t, err.Error(), "line 3")
		})
	}
}

func TestDecodeStatisticsRejectsRepeatedSize(t *testing.T) {
	_, err := DecodeStatistics("3:1,1,0,5\n3:2,0,0,#f\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedStatisticsLine)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "line 1")
}

func TestDecodedStatisticsEncodeUnchanged(t *testing.T) {
	texts := []string{
		"3:7,4,1,3.3333333333333335\n",
		"10:100,0,0,#f\n",
		"2:1,1,1,0.5\n",
	}
	for _, text := range texts {
		st, err := DecodeStatistics(text)
		require.NoError(t, err)
		assert.Equal(t, text, EncodeStatistics(st))
	}
}
