package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// LicenseKeyPrefix 라이선스 키 접두사
	LicenseKeyPrefix = "VIRI-"
	// LicenseKeyAlphabet 혼동되는 문자(I, O, 0, 1)를 제외한 문자 집합
	LicenseKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	licenseKeyBytes = 16
	licenseKeyGroup = 4
)

// GenerateLicenseKey 라이선스 키 생성 (형식: VIRI-XXXX-XXXX-XXXX-XXXX)
func GenerateLicenseKey() (string, error) {
	return GenerateLicenseKeyFrom(rand.Reader)
}

// GenerateLicenseKeyFrom 주어진 난수 소스로 라이선스 키 생성.
// 바이트마다 알파벳 길이로 나눈 나머지를 사용한다.
func GenerateLicenseKeyFrom(r io.Reader) (string, error) {
	buf := make([]byte, licenseKeyBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return FormatLicenseKey(buf), nil
}

// FormatLicenseKey 바이트열을 키 문자열로 변환
func FormatLicenseKey(buf []byte) string {
	var sb strings.Builder
	sb.Grow(len(LicenseKeyPrefix) + len(buf) + len(buf)/licenseKeyGroup)
	sb.WriteString(LicenseKeyPrefix)

	for i, b := range buf {
		sb.WriteByte(LicenseKeyAlphabet[int(b)%len(LicenseKeyAlphabet)])
		if (i+1)%licenseKeyGroup == 0 && i < len(buf)-1 {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// IsWellFormedLicenseKey 키 형식 검사 (존재 여부와 무관)
func IsWellFormedLicenseKey(key string) bool {
	if !strings.HasPrefix(key, LicenseKeyPrefix) {
		return false
	}
	groups := strings.Split(strings.TrimPrefix(key, LicenseKeyPrefix), "-")
	if len(groups) != licenseKeyBytes/licenseKeyGroup {
		return false
	}
	for _, g := range groups {
		if len(g) != licenseKeyGroup {
			return false
		}
		for _, c := range g {
			if !strings.ContainsRune(LicenseKeyAlphabet, c) {
				return false
			}
		}
	}
	return true
}

// GenerateID 접두사가 붙은 랜덤 ID 생성
func GenerateID(prefix string) (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	id := hex.EncodeToString(bytes)
	if prefix != "" {
		return fmt.Sprintf("%s-%s", prefix, id), nil
	}
	return id, nil
}

// NewToken UUID 기반 토큰 (다운로드 토큰, 승인 reference)
func NewToken() string {
	return uuid.NewString()
}

// HashPassword 비밀번호 해싱
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword 비밀번호 검증
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
