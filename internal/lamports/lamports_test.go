package lamports

import "testing"

func TestToSOL(t *testing.T) {
	cases := []struct {
		lamports uint64
		want     string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{5000, "0.000005000"},
		{PerSOL, "1.000000000"},
		{1_500_000_000, "1.500000000"},
		{24981836, "0.024981836"},
	}

	for _, tc := range cases {
		if got := ToSOL(tc.lamports); got != tc.want {
			t.Errorf("ToSOL(%d) = %s, want %s", tc.lamports, got, tc.want)
		}
	}
}

func TestFromSOL(t *testing.T) {
	cases := []struct {
		sol  string
		want uint64
	}{
		{"0", 0},
		{"1", PerSOL},
		{"0.000005", 5000},
		{"1.5", 1_500_000_000},
		{"0.024981836", 24981836},
		{".5", 500_000_000},
		{" 2 ", 2 * PerSOL},
	}

	for _, tc := range cases {
		got, err := FromSOL(tc.sol)
		if err != nil {
			t.Errorf("FromSOL(%q) failed: %v", tc.sol, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FromSOL(%q) = %d, want %d", tc.sol, got, tc.want)
		}
	}
}

func TestFromSOL_Invalid(t *testing.T) {
	for _, sol := range []string{"", "abc", "1.2.3", "1.", "-1", "0.0000000001"} {
		if _, err := FromSOL(sol); err == nil {
			t.Errorf("FromSOL(%q) expected error, got nil", sol)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, lamports := range []uint64{0, 1, 999, 5000, PerSOL - 1, PerSOL, 123_456_789_012} {
		got, err := FromSOL(ToSOL(lamports))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", lamports, err)
		}
		if got != lamports {
			t.Errorf("round trip of %d produced %d", lamports, got)
		}
	}
}
