package utils

import (
	"math/rand"
	"os"

	"github.com/Luismorlan/socialmux/utils/dotenv"
)

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// ContainsInt64 returns true iff the provided int64 slice hay contains needle.
func ContainsInt64(hay []int64, needle int64) bool {
	for _, v := range hay {
		if v == needle {
			return true
		}
	}
	return false
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString generates a random lowercase string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// IsProdEnv tells whether the current runtime environment is production.
func IsProdEnv() bool {
	return os.Getenv("SOCIALMUX_ENV") == dotenv.ProdEnv
}
