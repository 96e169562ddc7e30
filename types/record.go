package types

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// Slot layout sizes. The capacity formula is pure arithmetic over
// these constants; external readers depend on the offsets below
// never moving.
const (
	// HeaderBytes is the fixed schema discriminator prefix.
	HeaderBytes = 8
	// AuthorBytes is the size of the author identity.
	AuthorBytes = 32
	// TimestampBytes is the size of the creation timestamp.
	TimestampBytes = 8
	// LengthPrefixBytes encodes a variable-length field's byte length.
	LengthPrefixBytes = 4

	// MaxTopicChars and MaxContentChars are the semantic limits.
	MaxTopicChars   = 50
	MaxContentChars = 280

	// Byte reservations assume the worst case of four bytes per
	// character for multi-byte text. Validation rejects on byte
	// length against these ceilings, consistent with the reservation.
	MaxTopicBytes   = MaxTopicChars * 4
	MaxContentBytes = MaxContentChars * 4
)

// Fixed field offsets within an encoded record. AuthorOffset is
// exported: author filtering matches raw slot bytes at this offset.
const (
	AuthorOffset     = HeaderBytes
	timestampOffset  = AuthorOffset + AuthorBytes
	topicLenOffset   = timestampOffset + TimestampBytes
	topicOffset      = topicLenOffset + LengthPrefixBytes
	contentLenOffset = topicOffset + MaxTopicBytes
	contentOffset    = contentLenOffset + LengthPrefixBytes
)

// RequiredCapacity returns the exact byte size reserved for a record
// slot: header, author, timestamp, and both length-prefixed text
// fields at their maxima. The result is used verbatim as the
// allocation request when a slot is created and is never recomputed
// from actual field contents.
func RequiredCapacity() int {
	return HeaderBytes + AuthorBytes + TimestampBytes +
		LengthPrefixBytes + MaxTopicBytes +
		LengthPrefixBytes + MaxContentBytes
}

// recordDiscriminator tags a slot as holding this schema version.
// Fixed at definition time.
var recordDiscriminator = func() [HeaderBytes]byte {
	sum := sha256.Sum256([]byte("plume:TweetRecord:v1"))
	var d [HeaderBytes]byte
	copy(d[:], sum[:HeaderBytes])
	return d
}()

// TweetRecord is the sole entity the ledger stores. Immutable once
// committed: the core never mutates or removes a record.
//
// The cramberry tags cover transport serialization only; the durable
// slot layout is produced by EncodeRecord.
type TweetRecord struct {
	// Author is the identity that signed the creating request.
	Author Identity `cramberry:"1"`
	// CreatedAt is unix seconds from the host clock at commit time.
	CreatedAt int64 `cramberry:"2"`
	// Topic is optional; empty means "no topic".
	Topic string `cramberry:"3"`
	// Content is the message body.
	Content string `cramberry:"4"`
}

var (
	// ErrNotARecord reports slot bytes that do not carry the tweet
	// record discriminator.
	ErrNotARecord = errors.New("types: slot does not hold a tweet record")
	// ErrTruncatedRecord reports slot bytes shorter than the fixed
	// capacity reservation.
	ErrTruncatedRecord = errors.New("types: record shorter than required capacity")
)

// EncodeRecord lays the record out at its fixed offsets. The result
// is always exactly RequiredCapacity() bytes; variable fields are
// zero-padded to their maxima. Integers are little-endian.
func EncodeRecord(rec TweetRecord) ([]byte, error) {
	if len(rec.Topic) > MaxTopicBytes {
		return nil, fmt.Errorf("types: topic is %d bytes, max %d", len(rec.Topic), MaxTopicBytes)
	}
	if len(rec.Content) > MaxContentBytes {
		return nil, fmt.Errorf("types: content is %d bytes, max %d", len(rec.Content), MaxContentBytes)
	}

	buf := make([]byte, RequiredCapacity())
	copy(buf[:HeaderBytes], recordDiscriminator[:])
	copy(buf[AuthorOffset:], rec.Author[:])
	binary.LittleEndian.PutUint64(buf[timestampOffset:], uint64(rec.CreatedAt))
	binary.LittleEndian.PutUint32(buf[topicLenOffset:], uint32(len(rec.Topic)))
	copy(buf[topicOffset:], rec.Topic)
	binary.LittleEndian.PutUint32(buf[contentLenOffset:], uint32(len(rec.Content)))
	copy(buf[contentOffset:], rec.Content)
	return buf, nil
}

// DecodeRecord reads a record from raw slot bytes.
func DecodeRecord(data []byte) (TweetRecord, error) {
	if len(data) < RequiredCapacity() {
		return TweetRecord{}, ErrTruncatedRecord
	}
	if [HeaderBytes]byte(data[:HeaderBytes]) != recordDiscriminator {
		return TweetRecord{}, ErrNotARecord
	}

	topicLen := binary.LittleEndian.Uint32(data[topicLenOffset:])
	contentLen := binary.LittleEndian.Uint32(data[contentLenOffset:])
	if topicLen > MaxTopicBytes {
		return TweetRecord{}, fmt.Errorf("types: corrupt record: topic length %d", topicLen)
	}
	if contentLen > MaxContentBytes {
		return TweetRecord{}, fmt.Errorf("types: corrupt record: content length %d", contentLen)
	}

	var rec TweetRecord
	copy(rec.Author[:], data[AuthorOffset:])
	rec.CreatedAt = int64(binary.LittleEndian.Uint64(data[timestampOffset:]))
	rec.Topic = string(data[topicOffset : topicOffset+int(topicLen)])
	rec.Content = string(data[contentOffset : contentOffset+int(contentLen)])
	return rec, nil
}

// IsRecord reports whether raw slot bytes carry this schema's
// discriminator without fully decoding them.
func IsRecord(data []byte) bool {
	return len(data) >= HeaderBytes && [HeaderBytes]byte(data[:HeaderBytes]) == recordDiscriminator
}
