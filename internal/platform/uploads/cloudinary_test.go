package uploads

import (
	"testing"
	"time"
)

func TestSignUpload_KnownSignature(t *testing.T) {
	signer := NewSigner("demo", "key123", "topsecret", "tour-packages")

	cred := signer.SignUpload(time.Unix(1700000000, 0))

	if cred.CloudName != "demo" || cred.APIKey != "key123" {
		t.Fatalf("unexpected credential identity: %+v", cred)
	}
	if cred.Timestamp != 1700000000 {
		t.Fatalf("expected timestamp 1700000000, got %d", cred.Timestamp)
	}
	if cred.Folder != "tour-packages" {
		t.Fatalf("expected folder tour-packages, got %s", cred.Folder)
	}

	// sha1("folder=tour-packages&timestamp=1700000000" + "topsecret")
	want := "554fea3d6f76009c346abbeec628ff35d49f0b45"
	if cred.Signature != want {
		t.Fatalf("expected signature %s, got %s", want, cred.Signature)
	}
}

func TestSignUpload_FolderChangesSignature(t *testing.T) {
	signer := NewSigner("demo", "key123", "topsecret", "gallery")

	cred := signer.SignUpload(time.Unix(1700000000, 0))

	// sha1("folder=gallery&timestamp=1700000000" + "topsecret")
	want := "8300c6a189979c55d2de4c136c27720047c8458b"
	if cred.Signature != want {
		t.Fatalf("expected signature %s, got %s", want, cred.Signature)
	}
}

func TestConfigured(t *testing.T) {
	if NewSigner("", "", "", "f").Configured() {
		t.Fatal("empty signer should not report configured")
	}
	if !NewSigner("cloud", "key", "secret", "").Configured() {
		t.Fatal("signer with credentials should report configured")
	}
}
