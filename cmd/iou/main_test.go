package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/iou"
	"github.com/iov-one/iou/errors"
	"github.com/iov-one/iou/ioutest/assert"
)

// RFC 8032 test vector 1.
const (
	aliceSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	alicePub  = "D75A980182B10AB7D54BFED3C964073A0EE172F3DAA62325AF021A68F707511A"
)

func TestCmdVersion(t *testing.T) {
	var out bytes.Buffer
	assert.Nil(t, cmdVersion(nil, &out, nil))
	assert.Equal(t, iou.Version()+"\n", out.String())
}

func TestCmdDemo(t *testing.T) {
	var out bytes.Buffer
	err := cmdDemo(nil, &out, []string{"-amount", "7", "-lender", "carol", "-borrower", "dave", "-log", "none"})
	assert.Nil(t, err)

	got := out.String()
	wantStates := []string{
		"carol: built\n",
		"carol: self signed\n",
		"carol: awaiting counterparty\n",
		"carol: collected\n",
		"carol: submitted\n",
		"carol: finalized\n",
	}
	rest := got
	for _, s := range wantStates {
		i := strings.Index(rest, s)
		if i < 0 {
			t.Fatalf("state line %q not found in order in\n%s", s, got)
		}
		rest = rest[i+len(s):]
	}
	for _, want := range []string{"amount      7\n", "lender      carol (iou1", "borrower    dave (iou1", "height      1\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("want %q in\n%s", want, got)
		}
	}
}

func TestCmdDemoInvalidProposal(t *testing.T) {
	cases := map[string]struct {
		args    []string
		wantErr *errors.Error
	}{
		"zero amount": {
			args:    []string{"-amount", "0"},
			wantErr: errors.ErrAmount,
		},
		"negative amount": {
			args:    []string{"-amount", "-1"},
			wantErr: errors.ErrAmount,
		},
		"self dealing": {
			args:    []string{"-lender", "alice", "-borrower", "alice"},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			args := append([]string{"-log", "none"}, tc.args...)
			err := cmdDemo(nil, &out, args)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if out.Len() != 0 {
				t.Fatalf("nothing must happen before the proposal is valid, got\n%s", out.String())
			}
		})
	}
}

func TestCmdKeyaddr(t *testing.T) {
	dir, err := ioutil.TempDir("", "iou-keyaddr")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "iou.yaml")
	conf := "parties:\n  - name: alice\n    seed: " + aliceSeed + "\n"
	assert.Nil(t, ioutil.WriteFile(path, []byte(conf), 0600))

	var out bytes.Buffer
	assert.Nil(t, cmdKeyaddr(nil, &out, []string{"-config", path, "-as", "alice"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want two lines, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "iou1") {
		t.Fatalf("want a bech32 address, got %q", lines[0])
	}
	assert.Equal(t, alicePub, lines[1])

	err = cmdKeyaddr(nil, &out, []string{"-config", path, "-as", "bob"})
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %+v", err)
	}
}
