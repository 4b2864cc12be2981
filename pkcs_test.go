package rsakit

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"strings"
	"testing"

	"github.com/smallstep/pkcs7"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

func TestDecodePKCS12_RoundTrip(t *testing.T) {
	// WHY: The decoded identity must be the key and leaf that went in; the
	// normalizer relies on the key coming back as *rsa.PrivateKey.
	t.Parallel()
	key, _ := testRSAKeys(t)
	leaf := newTestCA(t, "rsakit PKCS12 Root").issueValid(t, &key.PublicKey)

	pfx, err := gopkcs12.Modern.Encode(key, leaf, nil, "changeit")
	if err != nil {
		t.Fatal(err)
	}
	gotKey, gotLeaf, caCerts, err := DecodePKCS12(pfx, "changeit")
	if err != nil {
		t.Fatalf("DecodePKCS12: %v", err)
	}
	rsaKey, ok := gotKey.(*rsa.PrivateKey)
	if !ok || !rsaKey.Equal(key) {
		t.Errorf("decoded key %T does not match", gotKey)
	}
	if !gotLeaf.Equal(leaf) {
		t.Error("decoded leaf does not match")
	}
	if len(caCerts) != 0 {
		t.Errorf("expected 0 CA certs, got %d", len(caCerts))
	}
}

func TestDecodePKCS12_Errors(t *testing.T) {
	// WHY: Wrong passwords and non-PKCS#12 data must produce an error with
	// the "decoding PKCS#12" context, not a panic or silent nil return.
	t.Parallel()
	key, _ := testRSAKeys(t)
	leaf := newTestCA(t, "rsakit PKCS12 Root").issueValid(t, &key.PublicKey)
	pfx, err := gopkcs12.Modern.Encode(key, leaf, nil, "changeit")
	if err != nil {
		t.Fatal(err)
	}

	for name, tc := range map[string]struct {
		data     []byte
		password string
	}{
		"wrong_password": {pfx, "wrong"},
		"garbage":        {[]byte("this is not pkcs12 data"), "changeit"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, _, err := DecodePKCS12(tc.data, tc.password)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "decoding PKCS#12") {
				t.Errorf("error should wrap with context, got: %v", err)
			}
		})
	}
}

func TestDecodePKCS7(t *testing.T) {
	// WHY: All certificates of a .p7b bundle must come back; any loss breaks
	// the intermediates handed to trust evaluation.
	t.Parallel()
	key, other := testRSAKeys(t)
	ca := newTestCA(t, "rsakit PKCS7 Root")
	a := ca.issueValid(t, &key.PublicKey)
	b := ca.issueValid(t, &other.PublicKey)

	var der []byte
	for _, cert := range []*x509.Certificate{a, b, ca.cert} {
		der = append(der, cert.Raw...)
	}
	p7, err := pkcs7.DegenerateCertificate(der)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodePKCS7(p7)
	if err != nil {
		t.Fatalf("DecodePKCS7: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("expected 3 certs, got %d", len(decoded))
	}
	for _, want := range []*x509.Certificate{a, b, ca.cert} {
		found := false
		for _, got := range decoded {
			if got.Equal(want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("cert serial %s missing from decoded PKCS#7", want.SerialNumber)
		}
	}
}

func TestDecodePKCS7_GarbageInput(t *testing.T) {
	// WHY: Invalid data must produce the "parsing PKCS#7" context.
	t.Parallel()
	_, err := DecodePKCS7([]byte("this is not pkcs7 data"))
	if err == nil {
		t.Fatal("expected error for garbage PKCS#7 input")
	}
	if !strings.Contains(err.Error(), "parsing PKCS#7") {
		t.Errorf("error should wrap with context, got: %v", err)
	}
}

func TestPrivateKeyMaterial(t *testing.T) {
	// WHY: Keys pulled from archives are re-encoded to PKCS#8 and stripped;
	// the result must be the key's PKCS#1 encoding.
	t.Parallel()
	key, _ := testRSAKeys(t)

	der, err := privateKeyMaterial(key)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		t.Fatalf("not PKCS#1: %v", err)
	}
	if !parsed.Equal(key) {
		t.Error("key mismatch")
	}
	if _, err := privateKeyMaterial(struct{}{}); !errors.Is(err, ErrUnsupportedKeyAlgorithm) {
		t.Errorf("error = %v, want ErrUnsupportedKeyAlgorithm", err)
	}
}
